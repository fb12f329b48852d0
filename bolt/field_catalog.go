package bolt

import (
	"context"
	"encoding/binary"

	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/kit/platform/errors"
	bolt "go.etcd.io/bbolt"
)

var fieldBucket = []byte("fieldsv1")

var _ fieldclip.FieldCatalog = (*Client)(nil)

func (c *Client) initializeFields(ctx context.Context, tx *bolt.Tx) error {
	if _, err := tx.CreateBucketIfNotExists(fieldBucket); err != nil {
		return err
	}
	return nil
}

// ListFields returns the field names in the order they were imported.
func (c *Client) ListFields(ctx context.Context) ([]string, error) {
	names := []string{}
	err := c.db.View(func(tx *bolt.Tx) error {
		// Keys are big-endian positions, so cursor order is import order.
		return tx.Bucket(fieldBucket).ForEach(func(_, v []byte) error {
			names = append(names, string(v))
			return nil
		})
	})
	if err != nil {
		return nil, &errors.Error{
			Op:  fieldclip.OpListFields,
			Err: err,
		}
	}
	return names, nil
}

// ImportFields replaces the catalog with names.
func (c *Client) ImportFields(ctx context.Context, names []string) (int, error) {
	names = fieldclip.NormalizeFieldNames(names)
	if len(names) == 0 {
		return 0, fieldclip.ErrEmptyFieldList
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		b, err := resetFields(tx)
		if err != nil {
			return err
		}
		for i, name := range names {
			if err := b.Put(encodePosition(i), []byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, &errors.Error{
			Op:  fieldclip.OpImportFields,
			Err: err,
		}
	}
	return len(names), nil
}

// ClearFields removes every field name.
func (c *Client) ClearFields(ctx context.Context) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		_, err := resetFields(tx)
		return err
	})
	if err != nil {
		return &errors.Error{
			Op:  fieldclip.OpClearFields,
			Err: err,
		}
	}
	return nil
}

func resetFields(tx *bolt.Tx) (*bolt.Bucket, error) {
	if err := tx.DeleteBucket(fieldBucket); err != nil && err != bolt.ErrBucketNotFound {
		return nil, err
	}
	return tx.CreateBucket(fieldBucket)
}

func encodePosition(i int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(i))
	return b
}
