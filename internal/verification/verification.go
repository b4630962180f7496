// Package verification derives the aggregate review status of a document
// set and applies admin review decisions. Rejection is an explicit document
// state, so a merely-unreviewed document leaves the aggregate pending rather
// than rejected.
package verification

import (
	"errors"
	"time"

	"github.com/nomadcabs/nomad-cabs-be/internal/models"
)

// ErrUnknownDocument is returned when a review targets a document type the
// owner never submitted.
var ErrUnknownDocument = errors.New("document not found")

// Aggregate derives the overall status of a document set: any rejected
// document rejects the set, a fully verified set is verified, anything else
// is still pending. An empty set is pending.
func Aggregate(docs []models.Document) models.DocumentStatus {
	if len(docs) == 0 {
		return models.DocumentPending
	}
	verified := 0
	for _, d := range docs {
		switch d.Status {
		case models.DocumentRejected:
			return models.DocumentRejected
		case models.DocumentVerified:
			verified++
		}
	}
	if verified == len(docs) {
		return models.DocumentVerified
	}
	return models.DocumentPending
}

// Review marks the document of the given type verified or rejected, with an
// optional remark, and stamps the review time. Documents can be reviewed in
// any order.
func Review(docs []models.Document, docType string, verified bool, remark string, now time.Time) error {
	for i := range docs {
		if docs[i].Type != docType {
			continue
		}
		if verified {
			docs[i].Status = models.DocumentVerified
		} else {
			docs[i].Status = models.DocumentRejected
		}
		docs[i].Remark = remark
		t := now
		docs[i].ReviewedAt = &t
		return nil
	}
	return ErrUnknownDocument
}

// Reset returns all documents to pending, clearing prior review outcomes.
// Used when a driver resubmits details.
func Reset(docs []models.Document) {
	for i := range docs {
		docs[i].Status = models.DocumentPending
		docs[i].Remark = ""
		docs[i].ReviewedAt = nil
	}
}
