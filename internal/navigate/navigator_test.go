package navigate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinescrape/internal/config"
	"dinescrape/internal/detect"
	"dinescrape/internal/menu"
	"dinescrape/internal/page"
)

var testDelays = config.DelayConfig{
	BetweenClicks:   time.Millisecond,
	AfterExpand:     time.Millisecond,
	AfterRestaurant: time.Millisecond,
	AfterClose:      time.Millisecond,
}

func navOver(t *testing.T, docs map[string]string) (*Navigator, *page.Snapshot) {
	t.Helper()
	snap, err := page.NewSnapshot(docs, "home")
	require.NoError(t, err)
	return New(snap, testDelays), snap
}

func TestOpenRestaurantByName(t *testing.T) {
	nav, snap := navOver(t, map[string]string{
		"home":   `<html><body><a data-page="sprout">Sprout</a><a data-page="skillet">The Skillet</a></body></html>`,
		"sprout": `<html><body><h1>Sprout</h1></body></html>`,
	})

	err := nav.OpenRestaurant(context.Background(), menu.Restaurant{Name: "Sprout", ExternalID: 7})
	require.NoError(t, err)
	assert.Equal(t, "sprout", snap.Current())
}

func TestOpenRestaurantByUnitID(t *testing.T) {
	nav, snap := navOver(t, map[string]string{
		"home":   `<html><body><a data-unit-id="7" data-page="sprout">Garden Menu</a></body></html>`,
		"sprout": `<html><body><h1>Sprout</h1></body></html>`,
	})

	err := nav.OpenRestaurant(context.Background(), menu.Restaurant{Name: "Sprout", ExternalID: 7})
	require.NoError(t, err)
	assert.Equal(t, "sprout", snap.Current())
}

func TestOpenRestaurantNotFound(t *testing.T) {
	nav, _ := navOver(t, map[string]string{
		"home": `<html><body><a href="#">The Skillet</a></body></html>`,
	})

	err := nav.OpenRestaurant(context.Background(), menu.Restaurant{Name: "Ghost Kitchen", ExternalID: 99})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestExpandCategories(t *testing.T) {
	nav, snap := navOver(t, map[string]string{
		"home": `<html><body>
			<button aria-expanded="false" data-reveal="#t1">Hot Cereals</button>
			<a href="#" data-reveal="#t2">Sides ►</a>
			<table id="t1" hidden></table>
			<table id="t2" hidden></table>
		</body></html>`,
	})

	expanded, err := nav.ExpandCategories(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, expanded, 2)
	assert.True(t, snap.Find("#t1")[0].Visible())
	assert.True(t, snap.Find("#t2")[0].Visible())
}

func TestOpenItemDetail(t *testing.T) {
	docs := map[string]string{
		"home": `<html><body>
			<table><tr><td><a data-reveal="#modal">Oatmeal</a></td></tr></table>
			<div id="modal" role="dialog" data-overlay hidden><p>Calories240</p></div>
		</body></html>`,
	}
	nav, snap := navOver(t, docs)

	rows := detect.ItemRows(snap)
	require.Len(t, rows, 1)

	detail, err := nav.OpenItemDetail(context.Background(), rows[0])
	require.NoError(t, err)
	assert.Contains(t, detail.Text(), "Calories240")
}

func TestOpenItemDetailMissingOverlay(t *testing.T) {
	nav, snap := navOver(t, map[string]string{
		"home": `<html><body>
			<table><tr><td><a href="#">Oatmeal</a></td></tr></table>
		</body></html>`,
	})

	rows := detect.ItemRows(snap)
	require.Len(t, rows, 1)

	_, err := nav.OpenItemDetail(context.Background(), rows[0])
	assert.ErrorIs(t, err, ErrDetailNotFound)
}

func TestCloseDetailPrefersCloseControl(t *testing.T) {
	nav, snap := navOver(t, map[string]string{
		"home": `<html><body>
			<div id="modal" role="dialog" data-overlay>
				<button aria-label="Close" data-dismiss="#modal">Close</button>
			</div>
		</body></html>`,
	})

	require.NoError(t, nav.CloseDetail(context.Background()))
	assert.False(t, snap.Find("#modal")[0].Visible())
}

func TestCloseDetailFallsBackToEscape(t *testing.T) {
	nav, snap := navOver(t, map[string]string{
		"home": `<html><body>
			<div id="modal" role="dialog" data-overlay><p>no close control here</p></div>
		</body></html>`,
	})

	require.NoError(t, nav.CloseDetail(context.Background()))
	assert.False(t, snap.Find("#modal")[0].Visible())
}
