package metastore

import (
	"context"
	"errors"
	"strings"

	"github.com/danthegoodman1/icefooter/gologger"
	"github.com/danthegoodman1/icefooter/part"
	"github.com/danthegoodman1/icefooter/utils"
)

var (
	logger = gologger.NewLogger()

	// Both are permanent so the CRDB retry loop gives up on them at once
	ErrPartNotFound = utils.PermError("part not found")
	ErrPartExists   = utils.PermError("part already exists")

	ErrDisableConflict = errors.New("concurrent changes to part")
)

type (
	MetaStore interface {
		// PutPart registers a new part, failing with ErrPartExists when the ID
		// or the key is taken
		PutPart(ctx context.Context, p part.Part) error
		// GetPart fetches a part with its footer, ErrPartNotFound if missing
		GetPart(ctx context.Context, id string) (part.Part, error)
		// ListParts lists alive parts whose key starts with keyPrefix
		ListParts(ctx context.Context, keyPrefix string) ([]part.Part, error)
		// DisablePart marks a part as no longer alive
		DisablePart(ctx context.Context, id string) error

		Shutdown(ctx context.Context) error
	}
)

func matchesPrefix(p part.Part, keyPrefix string) bool {
	return p.Alive && strings.HasPrefix(p.Key, keyPrefix)
}
