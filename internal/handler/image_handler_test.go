package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attachImage(t *testing.T, e *echo.Echo, owner account, listingID uint, url string) uint {
	t.Helper()
	rec := request(t, e, http.MethodPost, "/api/properties/images", owner.Token, map[string]interface{}{
		"listing_id": listingID,
		"image":      url,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var image struct {
		ID uint `json:"id"`
	}
	decode(t, rec, &image)
	return image.ID
}

func TestCreateImage(t *testing.T) {
	e, _ := setupServer(t)
	bob := signup(t, e, "bob", "agent")
	alice := signup(t, e, "alice", "")
	listingID := createListing(t, e, bob, "Family House", nil)

	attachImage(t, e, bob, listingID, "https://cdn.example.com/front.jpg")

	t.Run("tenant denied", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/properties/images", alice.Token, map[string]interface{}{
			"listing_id": listingID,
			"image":      "https://cdn.example.com/side.jpg",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown listing", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/properties/images", bob.Token, map[string]interface{}{
			"listing_id": 999,
			"image":      "https://cdn.example.com/ghost.jpg",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing url", func(t *testing.T) {
		rec := request(t, e, http.MethodPost, "/api/properties/images", bob.Token, map[string]interface{}{
			"listing_id": listingID,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListImagesByListing(t *testing.T) {
	e, _ := setupServer(t)
	bob := signup(t, e, "bob", "agent")
	first := createListing(t, e, bob, "Family House", nil)
	second := createListing(t, e, bob, "Riverside Villa", nil)

	attachImage(t, e, bob, first, "https://cdn.example.com/house.jpg")
	attachImage(t, e, bob, second, "https://cdn.example.com/villa.jpg")

	rec := request(t, e, http.MethodGet, fmt.Sprintf("/api/properties/images?listing=%d", first), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var images []struct {
		ListingID uint   `json:"listing_id"`
		URL       string `json:"image"`
	}
	decode(t, rec, &images)
	require.Len(t, images, 1)
	assert.Equal(t, first, images[0].ListingID)
	assert.Equal(t, "https://cdn.example.com/house.jpg", images[0].URL)
}

func TestImageMutationsInheritListingOwnership(t *testing.T) {
	e, _ := setupServer(t)
	bob := signup(t, e, "bob", "agent")
	carol := signup(t, e, "carol", "agent")
	listingID := createListing(t, e, bob, "Family House", nil)
	imageID := attachImage(t, e, bob, listingID, "https://cdn.example.com/front.jpg")
	path := fmt.Sprintf("/api/properties/images/%d", imageID)

	t.Run("unrelated agent cannot update", func(t *testing.T) {
		rec := request(t, e, http.MethodPut, path, carol.Token, map[string]interface{}{
			"image": "https://cdn.example.com/defaced.jpg",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "not owner", errorMessage(t, rec))
	})

	t.Run("owner updates", func(t *testing.T) {
		rec := request(t, e, http.MethodPut, path, bob.Token, map[string]interface{}{
			"image": "https://cdn.example.com/front-v2.jpg",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		var image struct {
			URL string `json:"image"`
		}
		decode(t, rec, &image)
		assert.Equal(t, "https://cdn.example.com/front-v2.jpg", image.URL)
	})

	t.Run("unrelated agent cannot delete", func(t *testing.T) {
		rec := request(t, e, http.MethodDelete, path, carol.Token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner deletes", func(t *testing.T) {
		rec := request(t, e, http.MethodDelete, path, bob.Token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = request(t, e, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
