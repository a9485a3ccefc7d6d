// Package recency classifies stories into a discrete freshness status
// for display. The classification never affects ordering.
package recency

import (
	"time"

	"hn-scout/hn"
)

// Status identifies one of the seven mutually exclusive buckets.
type Status string

const (
	Hot      Status = "hot"
	Trending Status = "trending"
	Recent   Status = "recent"
	Aging    Status = "aging"
	Classic  Status = "classic"
	Viral    Status = "viral"
	Archive  Status = "archive"
)

// Info is a status with its fixed presentation metadata. Priority is
// lower for more prominent statuses.
type Info struct {
	Status      Status `json:"status"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	ColorClass  string `json:"color"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

// Metadata is fixed per status so snapshots stay stable.
var infos = map[Status]Info{
	Viral: {
		Status:      Viral,
		Label:       "VIRAL",
		Icon:        "🚀",
		ColorClass:  "text-purple-600 bg-purple-50 border-purple-300",
		Description: "Legendary viral story with massive engagement",
		Priority:    1,
	},
	Classic: {
		Status:      Classic,
		Label:       "CLASSIC",
		Icon:        "⭐",
		ColorClass:  "text-yellow-600 bg-yellow-50 border-yellow-300",
		Description: "Classic story with significant historical engagement",
		Priority:    2,
	},
	Archive: {
		Status:      Archive,
		Label:       "ARCHIVE",
		Icon:        "📜",
		ColorClass:  "text-gray-500 bg-gray-50 border-gray-200",
		Description: "Archived story from more than 3 days ago",
		Priority:    6,
	},
	Hot: {
		Status:      Hot,
		Label:       "HOT",
		Icon:        "🔥",
		ColorClass:  "text-red-600 bg-red-50 border-red-300",
		Description: "Breaking news! Posted within the last 2 hours",
		Priority:    0,
	},
	Trending: {
		Status:      Trending,
		Label:       "TRENDING",
		Icon:        "📈",
		ColorClass:  "text-orange-600 bg-orange-50 border-orange-300",
		Description: "Trending story from the last 6 hours",
		Priority:    1,
	},
	Recent: {
		Status:      Recent,
		Label:       "RECENT",
		Icon:        "⏰",
		ColorClass:  "text-blue-600 bg-blue-50 border-blue-300",
		Description: "Fresh story from today",
		Priority:    3,
	},
	Aging: {
		Status:      Aging,
		Label:       "AGING",
		Icon:        "📰",
		ColorClass:  "text-gray-600 bg-gray-50 border-gray-200",
		Description: "Story from the last few days",
		Priority:    4,
	},
}

// Classify maps a story's age and engagement to a status. Past the
// 72-hour mark, engagement is checked before falling back to archive:
// a 100-hour-old story with 6000 points is viral, never archive.
func Classify(hoursAgo float64, points, comments int) Info {
	if hoursAgo > 72 {
		switch {
		case points >= 5000 || comments >= 2000:
			return infos[Viral]
		case points >= 1000 || comments >= 500:
			return infos[Classic]
		default:
			return infos[Archive]
		}
	}

	switch {
	case hoursAgo <= 2:
		return infos[Hot]
	case hoursAgo <= 6:
		return infos[Trending]
	case hoursAgo <= 24:
		return infos[Recent]
	default:
		return infos[Aging]
	}
}

// For classifies a story at the given instant.
func For(s hn.Story, now time.Time) Info {
	return Classify(s.HoursSince(now), s.Points, s.NumComments)
}
