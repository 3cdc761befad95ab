package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookStatus_Valid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, BookStatus("lost").Valid())
	assert.False(t, BookStatus("").Valid())
}

func TestBook_MergeOnlySuppliedFields(t *testing.T) {
	year := 1965
	b := Book{
		Title: "Dune", Author: "Herbert", Location: "Boston", Contact: "a@x.com",
		Status: StatusRented, OwnerID: "u1", PublishYear: &year,
	}
	b.Merge(BookFields{Description: "new text", OwnerID: "intruder"})

	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "Herbert", b.Author)
	assert.Equal(t, "Boston", b.Location)
	assert.Equal(t, "a@x.com", b.Contact)
	assert.Equal(t, StatusRented, b.Status)
	assert.Equal(t, "u1", b.OwnerID)
	assert.Equal(t, "new text", b.Description)
	assert.Equal(t, 1965, *b.PublishYear)

	newYear := 1966
	b.Merge(BookFields{PublishYear: &newYear})
	assert.Equal(t, 1966, *b.PublishYear)
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(sampleBooks())
	assert.Equal(t, BookStats{Total: 4, Available: 1, Rented: 2, Exchanged: 1}, s)
	assert.Equal(t, BookStats{}, ComputeStats(nil))
}

func TestTransitionPolicy(t *testing.T) {
	all := AllowAllTransitions()
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			assert.True(t, all.Allows(from, to), "%s -> %s", from, to)
		}
		assert.False(t, all.Terminal(from))
	}
	assert.False(t, all.Allows(StatusAvailable, "lost"))

	p := NewTransitionPolicy(StatusExchanged)
	assert.True(t, p.Allows(StatusAvailable, StatusExchanged))
	assert.True(t, p.Allows(StatusExchanged, StatusExchanged))
	assert.False(t, p.Allows(StatusExchanged, StatusAvailable))
	assert.False(t, p.Allows(StatusExchanged, StatusRented))
	assert.True(t, p.Terminal(StatusExchanged))
	assert.False(t, p.Terminal(StatusRented))
}
