package session

import (
	"context"

	"github.com/dmitrijs2005/petcare/internal/client/repositories/metadata"
)

const guestKey = "pc_guest"

// GuestFlag is the locally persisted "continue as guest" switch.
type GuestFlag interface {
	IsSet(ctx context.Context) (bool, error)
	Set(ctx context.Context) error
	Clear(ctx context.Context) error
}

// MetadataGuestFlag keeps the flag in the local metadata store.
type MetadataGuestFlag struct {
	meta metadata.Repository
}

func NewMetadataGuestFlag(meta metadata.Repository) *MetadataGuestFlag {
	return &MetadataGuestFlag{meta: meta}
}

func (f *MetadataGuestFlag) IsSet(ctx context.Context) (bool, error) {
	v, err := f.meta.Get(ctx, guestKey)
	if err != nil {
		return false, err
	}
	return string(v) == "1", nil
}

func (f *MetadataGuestFlag) Set(ctx context.Context) error {
	return f.meta.Set(ctx, guestKey, []byte("1"))
}

func (f *MetadataGuestFlag) Clear(ctx context.Context) error {
	return f.meta.Delete(ctx, guestKey)
}
