package repository

import (
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/genproto/googleapis/type/latlng"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"Spotmap-App/internal/domain/model"
)

// firestoreSpot GeoPoint を Firestore のジオポイント型で保存するための表現
type firestoreSpot struct {
	model.Spot
	Location *latlng.LatLng   `firestore:"location,omitempty"`
	Bounds   []*latlng.LatLng `firestore:"bounds,omitempty"`
}

func toFirestoreSpot(s *model.Spot) *firestoreSpot {
	fs := &firestoreSpot{Spot: *s}
	if s.Location != nil {
		fs.Location = toLatLng(*s.Location)
	}
	for _, p := range s.Bounds {
		fs.Bounds = append(fs.Bounds, toLatLng(p))
	}
	return fs
}

func (fs *firestoreSpot) toModel(spotID string) *model.Spot {
	s := fs.Spot
	s.ID = spotID
	s.Location = nil
	s.Bounds = nil
	if fs.Location != nil {
		p := fromLatLng(fs.Location)
		s.Location = &p
	}
	for _, ll := range fs.Bounds {
		if ll != nil {
			s.Bounds = append(s.Bounds, fromLatLng(ll))
		}
	}
	return &s
}

func toLatLng(p model.GeoPoint) *latlng.LatLng {
	return &latlng.LatLng{Latitude: p.Latitude, Longitude: p.Longitude}
}

func fromLatLng(ll *latlng.LatLng) model.GeoPoint {
	return model.GeoPoint{Latitude: ll.GetLatitude(), Longitude: ll.GetLongitude()}
}

// toFirestoreUpdates フィールド変更を Firestore の更新に変換する
// null 削除センチネルは firestore.Delete に対応する
func toFirestoreUpdates(changes []model.FieldChange) []firestore.Update {
	updates := make([]firestore.Update, 0, len(changes))
	for _, c := range changes {
		u := firestore.Update{FieldPath: firestore.FieldPath(c.Path)}
		if c.Delete {
			u.Value = firestore.Delete
		} else {
			u.Value = toFirestoreValue(c.Value)
		}
		updates = append(updates, u)
	}
	return updates
}

func toFirestoreValue(v interface{}) interface{} {
	switch val := v.(type) {
	case model.GeoPoint:
		return toLatLng(val)
	case *model.GeoPoint:
		if val == nil {
			return nil
		}
		return toLatLng(*val)
	case []model.GeoPoint:
		out := make([]*latlng.LatLng, 0, len(val))
		for _, p := range val {
			out = append(out, toLatLng(p))
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = toFirestoreValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = toFirestoreValue(item)
		}
		return out
	}
	return v
}

// fromFirestoreValue 読み出した値のジオポイントをドメインの GeoPoint に置き換える
func fromFirestoreValue(v interface{}) interface{} {
	switch val := v.(type) {
	case *latlng.LatLng:
		if val == nil {
			return nil
		}
		return fromLatLng(val)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = fromFirestoreValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = fromFirestoreValue(item)
		}
		return out
	}
	return v
}

// mapFirestoreError Firestore のエラーをドメインのエラーに変換
func mapFirestoreError(err error, path string) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", path, model.ErrNotFound)
	}
	if errors.Is(err, model.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
