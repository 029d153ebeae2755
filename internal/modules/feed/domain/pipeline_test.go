package domain

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func item(id, title, link string, age time.Duration) itemDomain.Item {
	return itemDomain.Item{ID: id, Title: title, Link: link, PubDate: base.Add(-age)}
}

func ids(items []itemDomain.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestDedupeAcrossSources(t *testing.T) {
	a := []itemDomain.Item{item("a-1", "Rice joins Arsenal", "https://www.bbc.com/sport/1", time.Hour)}
	b := []itemDomain.Item{item("b-1", "rice  JOINS arsenal ", "https://www.bbc.com/other", 0)}

	got := Dedupe(Merge([][]itemDomain.Item{a, b}))
	require.Len(t, got, 1)
	assert.Equal(t, "a-1", got[0].ID, "first seen wins")
}

func TestDedupeKeepsDifferentHosts(t *testing.T) {
	got := Dedupe([]itemDomain.Item{
		item("1", "Same title", "https://a.example/x", 0),
		item("2", "Same title", "https://b.example/x", 0),
	})
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestDedupeNeverDropsHostlessLinks(t *testing.T) {
	got := Dedupe([]itemDomain.Item{
		item("1", "Same", "", 0),
		item("2", "Same", "", 0),
		item("3", "Same", "not a url", 0),
		item("4", "Same", "://bad", 0),
	})
	assert.Len(t, got, 4)
}

func TestDedupeIdempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	titles := []string{"Deal done", "deal DONE", "Loan move", "Exit"}
	hosts := []string{"a.example", "b.example", ""}

	for n := 0; n < 50; n++ {
		var items []itemDomain.Item
		for i := 0; i < r.IntN(20); i++ {
			link := ""
			if h := hosts[r.IntN(len(hosts))]; h != "" {
				link = "https://" + h + "/p"
			}
			items = append(items, item(fmt.Sprint(i), titles[r.IntN(len(titles))], link, 0))
		}

		once := Dedupe(items)
		assert.Equal(t, once, Dedupe(once))
	}
}

func TestSortByDateNewestFirstAndStable(t *testing.T) {
	got := SortByDate([]itemDomain.Item{
		item("old", "", "", 3*time.Hour),
		item("tie-1", "", "", time.Hour),
		item("new", "", "", 0),
		item("tie-2", "", "", time.Hour),
	})
	assert.Equal(t, []string{"new", "tie-1", "tie-2", "old"}, ids(got))
}

func TestPipelineOrdersTwoSources(t *testing.T) {
	a := []itemDomain.Item{
		item("a-1", "First", "https://a.example/1", 2*time.Hour),
		item("a-2", "Second", "https://a.example/2", 30*time.Minute),
	}
	b := []itemDomain.Item{item("b-1", "Third", "https://b.example/1", time.Hour)}

	assert.Equal(t, []string{"a-2", "b-1", "a-1"}, ids(Pipeline([][]itemDomain.Item{a, b})))
	assert.NotNil(t, Pipeline(nil))
}

func TestApplyKeepsItemsOnFailure(t *testing.T) {
	previous := []itemDomain.Item{item("x", "kept", "https://a.example", 0)}
	s := Initial()
	s.Items = previous

	s = Begin(s)
	assert.Equal(t, StatusLoading, s.Status)

	s = Apply(s, CycleResult{CycleID: s.CycleID, Err: fmt.Errorf("boom"), At: base})
	assert.Equal(t, StatusIdle, s.Status)
	assert.Equal(t, FailureMessage, s.Error)
	assert.Equal(t, previous, s.Items)
	assert.True(t, s.UpdatedAt.IsZero())

	s = Begin(s)
	assert.Empty(t, s.Error)
	fresh := []itemDomain.Item{item("y", "fresh", "https://b.example", 0)}
	s = Apply(s, CycleResult{CycleID: s.CycleID, Items: fresh, At: base})
	assert.Equal(t, fresh, s.Items)
	assert.Equal(t, base, s.UpdatedAt)
}

func TestApplyIgnoresStaleCycle(t *testing.T) {
	s := Begin(Initial())
	stale := s.CycleID
	s = Begin(Apply(s, CycleResult{CycleID: stale, At: base}))

	after := Apply(s, CycleResult{CycleID: stale, Items: []itemDomain.Item{item("z", "", "", 0)}})
	assert.Equal(t, s, after)
}
