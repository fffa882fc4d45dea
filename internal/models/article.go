// PressGate - Multi-Tenant Publishing Platform Backend
// Copyright 2026 PressGate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pressgate/pressgate

package models

import "time"

// ReportThreshold is the number of distinct reporters that suppresses a
// published article from public listings. Crossing it is a side effect of
// the counter, not a separate state transition.
const ReportThreshold = 3

// Article is a piece of content owned by exactly one publisher.
//
// Visibility is derived from two fields rather than an explicit state
// enum: IsPublished and ReportedByLength. The invariant
// ReportedByLength == len(ReportedBy) is maintained atomically with every
// membership change.
type Article struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	PhotoURL string `json:"photoUrl,omitempty"`

	PublishedBy string `json:"publishedBy"`
	RegionID    string `json:"regionId"`

	// WordpressID is the external key for WordPress-sourced articles.
	// LastWordpressPhotoURL records the source photo URL of the last
	// successful photo fetch so unchanged photos are not re-fetched.
	WordpressID           string `json:"wordpressId,omitempty"`
	LastWordpressPhotoURL string `json:"lastWordpressPhotoUrl,omitempty"`

	ReportedBy       []string `json:"reportedBy"`
	ReportedByLength int      `json:"reportedByLength"`
	IsPublished      bool     `json:"isPublished"`

	CreatedAt time.Time `json:"createdAt"`
}

// Accessible reports whether the article may appear in public listings:
// published and reported by fewer than ReportThreshold distinct publishers.
func (a *Article) Accessible() bool {
	return a.IsPublished && a.ReportedByLength < ReportThreshold
}

// ReportedByPublisher reports whether the given publisher already reported
// this article.
func (a *Article) ReportedByPublisher(publisherID string) bool {
	for _, id := range a.ReportedBy {
		if id == publisherID {
			return true
		}
	}
	return false
}

// ArticlesPage is a single page of article query results together with
// the total number of matches.
type ArticlesPage struct {
	Articles []Article `json:"articles"`
	CountAll int       `json:"countAll"`
}

// Region is static reference data readers follow and articles belong to.
type Region struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Countries []string `json:"countries"`
}
