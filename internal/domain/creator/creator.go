// Package creator defines the record model for creator/influencer entries.
package creator

import "time"

// Record is a single creator entry from an uploaded table.
// Missing numeric fields are zero by ingestion policy, never NaN.
type Record struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Followers      int64   `json:"followers"`
	EngagementRate float64 `json:"engagement_rate"`
	AvgLikes       float64 `json:"avg_likes"`
	AvgComments    float64 `json:"avg_comments"`
}

// LikesComments returns the combined likes+comments scoring dimension.
func (r Record) LikesComments() float64 {
	return r.AvgLikes + r.AvgComments
}

// Dataset is an uploaded table of records, held in memory for the
// lifetime of the process. Records keep their upload order.
type Dataset struct {
	ID          string
	Name        string
	Records     []Record
	SkippedRows int
	UploadedAt  time.Time
}
