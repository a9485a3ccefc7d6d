package recency

import (
	"testing"
	"time"

	"hn-scout/hn"
)

func TestClassify_TimeTiers(t *testing.T) {
	tests := []struct {
		name     string
		hoursAgo float64
		want     Status
	}{
		{"brand new", 0, Hot},
		{"boundary of hot tier", 2, Hot},
		{"just past hot", 2.0001, Trending},
		{"boundary of trending tier", 6, Trending},
		{"just past trending", 6.0001, Recent},
		{"boundary of recent tier", 24, Recent},
		{"just past recent", 24.0001, Aging},
		{"boundary of aging tier", 72, Aging},
		{"just past aging", 72.0001, Archive},
		{"weeks old", 400, Archive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.hoursAgo, 10, 3)
			if got.Status != tt.want {
				t.Errorf("Classify(%v, 10, 3) = %s, want %s", tt.hoursAgo, got.Status, tt.want)
			}
		})
	}
}

func TestClassify_EngagementOverridesAge(t *testing.T) {
	tests := []struct {
		name     string
		points   int
		comments int
		want     Status
	}{
		{"viral by points", 5000, 0, Viral},
		{"viral by comments", 0, 2000, Viral},
		{"classic by points", 1000, 0, Classic},
		{"classic by comments", 0, 500, Classic},
		{"below both thresholds", 999, 499, Archive},
		{"viral beats classic", 6000, 600, Viral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(100, tt.points, tt.comments)
			if got.Status != tt.want {
				t.Errorf("Classify(100, %d, %d) = %s, want %s", tt.points, tt.comments, got.Status, tt.want)
			}
		})
	}
}

func TestClassify_EngagementIgnoredWithin72Hours(t *testing.T) {
	// High engagement inside the 72-hour window still classifies by age.
	got := Classify(50, 6000, 3000)
	if got.Status != Aging {
		t.Errorf("expected aging for a 50-hour story regardless of engagement, got %s", got.Status)
	}
}

func TestClassify_NegativeAgeIsHot(t *testing.T) {
	got := Classify(-1, 0, 0)
	if got.Status != Hot {
		t.Errorf("expected hot for negative age, got %s", got.Status)
	}
}

func TestClassify_Priorities(t *testing.T) {
	want := map[Status]int{
		Hot:      0,
		Trending: 1,
		Viral:    1,
		Classic:  2,
		Recent:   3,
		Aging:    4,
		Archive:  6,
	}

	for status, priority := range want {
		if infos[status].Priority != priority {
			t.Errorf("%s priority = %d, want %d", status, infos[status].Priority, priority)
		}
	}
}

func TestClassify_MetadataStable(t *testing.T) {
	got := Classify(1, 0, 0)
	if got.Label != "HOT" || got.Icon != "🔥" {
		t.Errorf("unexpected hot metadata: %+v", got)
	}
	if got.ColorClass != "text-red-600 bg-red-50 border-red-300" {
		t.Errorf("unexpected hot color class: %s", got.ColorClass)
	}

	viral := Classify(100, 5000, 0)
	if viral.Label != "VIRAL" || viral.Icon != "🚀" {
		t.Errorf("unexpected viral metadata: %+v", viral)
	}
}

func TestClassify_Total(t *testing.T) {
	// Every input combination lands in exactly one bucket.
	ages := []float64{-5, 0, 1, 2, 3, 6, 7, 24, 30, 72, 73, 1000}
	points := []int{0, 999, 1000, 4999, 5000}
	comments := []int{0, 499, 500, 1999, 2000}

	for _, h := range ages {
		for _, p := range points {
			for _, c := range comments {
				got := Classify(h, p, c)
				if got.Status == "" {
					t.Fatalf("Classify(%v, %d, %d) returned empty status", h, p, c)
				}
				if got.Label == "" || got.Description == "" {
					t.Fatalf("Classify(%v, %d, %d) returned incomplete metadata", h, p, c)
				}
			}
		}
	}
}

func TestFor_UsesStoryAge(t *testing.T) {
	now := time.Unix(1700000000, 0)
	story := hn.Story{
		Points:      6000,
		NumComments: 10,
		CreatedAtI:  now.Add(-200 * time.Hour).Unix(),
	}

	got := For(story, now)
	if got.Status != Viral {
		t.Errorf("expected viral for a 200-hour 6000-point story, got %s", got.Status)
	}
}
