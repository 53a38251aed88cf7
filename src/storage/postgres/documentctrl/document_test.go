package documentctrl

import (
	"reflect"
	"testing"
)

func TestAttachKeywords(t *testing.T) {
	docs := []Document{
		{ID: 1, Title: "First"},
		{ID: 2, Title: "Second"},
		{ID: 3, Title: "Third"},
	}
	rows := []DocumentKeyword{
		{DocumentID: 1, Keyword: "budget"},
		{DocumentID: 1, Keyword: "finance"},
		{DocumentID: 3, Keyword: "audit"},
		{DocumentID: 99, Keyword: "orphan"},
	}

	attachKeywords(docs, rows)

	if want := []string{"budget", "finance"}; !reflect.DeepEqual(docs[0].Keywords, want) {
		t.Errorf("doc 1 keywords = %v, want %v", docs[0].Keywords, want)
	}
	if docs[1].Keywords != nil {
		t.Errorf("doc 2 keywords = %v, want none", docs[1].Keywords)
	}
	if want := []string{"audit"}; !reflect.DeepEqual(docs[2].Keywords, want) {
		t.Errorf("doc 3 keywords = %v, want %v", docs[2].Keywords, want)
	}
}

func TestAttachKeywordsEmptyInput(t *testing.T) {
	attachKeywords(nil, nil)

	docs := []Document{{ID: 1}}
	attachKeywords(docs, nil)
	if docs[0].Keywords != nil {
		t.Errorf("keywords = %v, want none", docs[0].Keywords)
	}
}
