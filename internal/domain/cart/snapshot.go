package cart

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// EncodeSnapshot serializes the full collection as a JSON array for the
// durable storage slot. Prices are encoded as strings to keep exact decimal
// values across the round trip.
func EncodeSnapshot(items []LineItem) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, it := range items {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(it.ID)
		e.FieldStart("name")
		e.Str(it.Name)
		e.FieldStart("price")
		e.Str(it.UnitPrice.String())
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.FieldStart("category")
		e.Str(string(it.Category))
		e.FieldStart("image")
		e.Str(it.ImageRef)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

// DecodeSnapshot parses a persisted cart snapshot. Any malformed content
// (bad JSON, unknown category, non-positive quantity, negative price) is an
// error: callers discard the slot and start with an empty cart.
func DecodeSnapshot(data []byte) ([]LineItem, error) {
	d := jx.DecodeBytes(data)

	var items []LineItem
	if err := d.Arr(func(d *jx.Decoder) error {
		var it LineItem
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				it.ID, err = d.Str()
			case "name":
				it.Name, err = d.Str()
			case "price":
				var s string
				if s, err = d.Str(); err == nil {
					it.UnitPrice, err = decimal.NewFromString(s)
				}
			case "quantity":
				it.Quantity, err = d.Int()
			case "category":
				var s string
				if s, err = d.Str(); err == nil {
					it.Category, err = ParseCategory(s)
				}
			case "image":
				it.ImageRef, err = d.Str()
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}

		if it.ID == "" {
			return errors.New("line item missing id")
		}
		if it.Quantity < 1 {
			return errors.Errorf("line item %q has quantity %d", it.ID, it.Quantity)
		}
		if it.UnitPrice.IsNegative() {
			return errors.Errorf("line item %q has negative price", it.ID)
		}

		items = append(items, it)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode cart snapshot")
	}
	return items, nil
}
