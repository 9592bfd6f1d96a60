package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"velora-backend/models"
)

func TestGetWishlistEmpty(t *testing.T) {
	db := freshDB()
	router := setupWishlistRouter(db)

	_, token := seedTestUser(db, "wish-empty@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/v1/wishlist/", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body == "null" || body == "null\n" {
		t.Error("expected empty array, got null")
	}
}

func TestAddWishlistItemIdempotent(t *testing.T) {
	db := freshDB()
	router := setupWishlistRouter(db)

	user, token := seedTestUser(db, "wish-add@test.com", "customer")
	cat := seedCategory(db, "Shirts")
	product := seedProduct(db, "Essential Tee", cat.ID, 1000)

	body := map[string]interface{}{"product_id": product.ID}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/v1/wishlist/", body, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	// Liking twice lands on the same row
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/v1/wishlist/", body, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.WishlistItem{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 wishlist row, got %d", count)
	}
}

func TestRemoveWishlistItem(t *testing.T) {
	db := freshDB()
	router := setupWishlistRouter(db)

	user, token := seedTestUser(db, "wish-remove@test.com", "customer")
	cat := seedCategory(db, "Shirts")
	product := seedProduct(db, "Essential Tee", cat.ID, 1000)

	item := models.WishlistItem{UserID: user.ID, ProductID: product.ID}
	db.Create(&item)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", fmt.Sprintf("/api/v1/wishlist/%d/", item.ID), nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.WishlistItem{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 wishlist rows, got %d", count)
	}
}

func TestRemoveForeignWishlistItemRejected(t *testing.T) {
	db := freshDB()
	router := setupWishlistRouter(db)

	owner, _ := seedTestUser(db, "wish-owner@test.com", "customer")
	_, otherToken := seedTestUser(db, "wish-other@test.com", "customer")
	cat := seedCategory(db, "Shirts")
	product := seedProduct(db, "Essential Tee", cat.ID, 1000)

	item := models.WishlistItem{UserID: owner.ID, ProductID: product.ID}
	db.Create(&item)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", fmt.Sprintf("/api/v1/wishlist/%d/", item.ID), nil, otherToken))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWishlistToggleOnOff(t *testing.T) {
	db := freshDB()
	router := setupWishlistRouter(db)

	user, token := seedTestUser(db, "wish-toggle@test.com", "customer")
	cat := seedCategory(db, "Shirts")
	product := seedProduct(db, "Essential Tee", cat.ID, 1000)

	body := map[string]interface{}{"product_id": product.ID}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/v1/wishlist/toggle/", body, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["liked"] != true {
		t.Errorf("expected liked true, got %v", resp["liked"])
	}

	// The server row id replaces the placeholder for signed-in users
	var item models.WishlistItem
	if err := db.Where("user_id = ? AND product_id = ?", user.ID, product.ID).First(&item).Error; err != nil {
		t.Fatalf("expected wishlist row: %v", err)
	}
	if int64(resp["entry_id"].(float64)) != int64(item.ID) {
		t.Errorf("expected entry_id %d, got %v", item.ID, resp["entry_id"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/v1/wishlist/toggle/", body, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = parseResponse(w)
	if resp["liked"] != false {
		t.Errorf("expected liked false, got %v", resp["liked"])
	}

	var count int64
	db.Model(&models.WishlistItem{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 wishlist rows after off toggle, got %d", count)
	}
}
