package services

import (
	"testing"

	"lead-pipeline-api/models"
)

func docsWithStatuses(statuses ...string) []models.LeadDocument {
	docs := make([]models.LeadDocument, len(statuses))
	for i, status := range statuses {
		docs[i] = models.LeadDocument{DocumentID: i + 1, Status: status}
	}
	return docs
}

func TestDocumentCompletionLabels(t *testing.T) {
	cases := []struct {
		name  string
		docs  []models.LeadDocument
		label string
	}{
		{"no documents", nil, DocSummaryNone},
		{"empty checklist", []models.LeadDocument{}, DocSummaryNone},
		{
			"all verified",
			docsWithStatuses(models.DocStatusVerified, models.DocStatusVerified),
			DocSummaryComplete,
		},
		{
			"mixed provided and verified",
			docsWithStatuses(models.DocStatusVerified, models.DocStatusVerified,
				models.DocStatusProvided, models.DocStatusProvided),
			DocSummaryUnderReview,
		},
		{
			"one pending among verified",
			docsWithStatuses(models.DocStatusPending, models.DocStatusVerified,
				models.DocStatusVerified, models.DocStatusVerified),
			"1 Pending",
		},
		{
			"several pending",
			docsWithStatuses(models.DocStatusPending, models.DocStatusPending,
				models.DocStatusProvided),
			"2 Pending",
		},
	}

	for _, tc := range cases {
		summary := DocumentCompletion(tc.docs)
		if summary.Label != tc.label {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.label, summary.Label)
		}
	}
}

func TestDocumentCompletionCounts(t *testing.T) {
	docs := docsWithStatuses(
		models.DocStatusPending,
		models.DocStatusProvided, models.DocStatusProvided,
		models.DocStatusVerified,
	)
	summary := DocumentCompletion(docs)

	if summary.Total != 4 {
		t.Fatalf("expected total 4, got %d", summary.Total)
	}
	if summary.Pending != 1 || summary.Provided != 2 || summary.Verified != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
}

// completionTier orders the labels: improving one document while holding the
// rest fixed must never move the summary backwards.
func completionTier(label string) int {
	switch label {
	case DocSummaryComplete:
		return 3
	case DocSummaryUnderReview:
		return 2
	case DocSummaryNone:
		return 0
	}
	return 1 // "n Pending"
}

func TestDocumentCompletionMonotonicity(t *testing.T) {
	improve := map[string]string{
		models.DocStatusPending:  models.DocStatusProvided,
		models.DocStatusProvided: models.DocStatusVerified,
	}

	base := docsWithStatuses(
		models.DocStatusPending, models.DocStatusPending,
		models.DocStatusProvided, models.DocStatusVerified,
	)

	current := make([]models.LeadDocument, len(base))
	copy(current, base)

	// Walk every single-document improvement until everything is verified.
	for {
		before := DocumentCompletion(current)
		improved := false
		for i := range current {
			next, ok := improve[current[i].Status]
			if !ok {
				continue
			}
			current[i].Status = next
			after := DocumentCompletion(current)
			if completionTier(after.Label) < completionTier(before.Label) {
				t.Fatalf("completion went backwards: %q -> %q after improving doc %d",
					before.Label, after.Label, current[i].DocumentID)
			}
			if after.Pending > before.Pending {
				t.Fatalf("pending count grew from %d to %d", before.Pending, after.Pending)
			}
			before = after
			improved = true
		}
		if !improved {
			break
		}
	}

	final := DocumentCompletion(current)
	if final.Label != DocSummaryComplete {
		t.Fatalf("expected complete checklist at the end, got %q", final.Label)
	}
}
