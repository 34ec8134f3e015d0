package repository

import (
	"errors"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/type/latlng"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"Spotmap-App/internal/domain/model"
)

func TestToFirestoreUpdates(t *testing.T) {
	updates := toFirestoreUpdates([]model.FieldChange{
		model.SetField(model.GeoPoint{Latitude: 1, Longitude: 2}, "location"),
		model.SetField([]model.GeoPoint{{Latitude: 1, Longitude: 2}}, "bounds"),
		model.SetField("Q1", "external_references", "wikidata"),
		model.DeleteField("amenities", "parking"),
	})
	require.Len(t, updates, 4)

	assert.Equal(t, firestore.FieldPath{"location"}, updates[0].FieldPath)
	assert.Equal(t, &latlng.LatLng{Latitude: 1, Longitude: 2}, updates[0].Value)
	assert.Equal(t, []*latlng.LatLng{{Latitude: 1, Longitude: 2}}, updates[1].Value)
	assert.Equal(t, firestore.FieldPath{"external_references", "wikidata"}, updates[2].FieldPath)
	assert.Equal(t, "Q1", updates[2].Value)
	assert.Equal(t, firestore.FieldPath{"amenities", "parking"}, updates[3].FieldPath)
	assert.Equal(t, firestore.Delete, updates[3].Value)
}

func TestToFirestoreValue_Nested(t *testing.T) {
	got := toFirestoreValue(map[string]interface{}{
		"formatted": "1 Main St",
		"entrance":  model.GeoPoint{Latitude: 1, Longitude: 2},
		"gates":     []interface{}{model.GeoPoint{Latitude: 3, Longitude: 4}},
	})
	assert.Equal(t, map[string]interface{}{
		"formatted": "1 Main St",
		"entrance":  &latlng.LatLng{Latitude: 1, Longitude: 2},
		"gates":     []interface{}{&latlng.LatLng{Latitude: 3, Longitude: 4}},
	}, got)
}

func TestFromFirestoreValue(t *testing.T) {
	got := fromFirestoreValue(map[string]interface{}{
		"location": &latlng.LatLng{Latitude: 3, Longitude: 4},
		"bounds":   []interface{}{&latlng.LatLng{Latitude: 1, Longitude: 1}},
		"name":     "x",
	})
	assert.Equal(t, map[string]interface{}{
		"location": model.GeoPoint{Latitude: 3, Longitude: 4},
		"bounds":   []interface{}{model.GeoPoint{Latitude: 1, Longitude: 1}},
		"name":     "x",
	}, got)
}

func TestFirestoreSpot_RoundTrip(t *testing.T) {
	spot := &model.Spot{
		ID:       "s1",
		Name:     model.LocalizedText{"en": "Tower"},
		Location: &model.GeoPoint{Latitude: 35.6586, Longitude: 139.7454},
		Bounds:   []model.GeoPoint{{Latitude: 1, Longitude: 1}, {Latitude: 2, Longitude: 1}, {Latitude: 2, Longitude: 2}},
	}

	fs := toFirestoreSpot(spot)
	require.NotNil(t, fs.Location)
	assert.Equal(t, 35.6586, fs.Location.GetLatitude())
	assert.Len(t, fs.Bounds, 3)

	back := fs.toModel("s1")
	assert.Equal(t, spot, back)
}

func TestMapFirestoreError(t *testing.T) {
	assert.NoError(t, mapFirestoreError(nil, "spots/s1"))

	err := mapFirestoreError(status.Error(codes.NotFound, "missing"), "spots/s1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	other := errors.New("deadline")
	err = mapFirestoreError(other, "spots/s1")
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}
