package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/danthegoodman1/icefooter/crdb"
	"github.com/danthegoodman1/icefooter/datastore"
	"github.com/danthegoodman1/icefooter/metastore"
	"github.com/danthegoodman1/icefooter/migrations"
	"github.com/danthegoodman1/icefooter/utils"
)

var ErrUnknownStore = errors.New("unknown store")

type (
	Stores struct {
		MetaStore metastore.MetaStore
		DataStore datastore.DataStore
	}
)

// NewStores builds the data and meta stores named by DATA_STORE and
// META_STORE. CRDB migrations are applied before the store is returned.
func NewStores(ctx context.Context) (*Stores, error) {
	var (
		ds  datastore.DataStore
		err error
	)
	switch utils.DATA_STORE {
	case "disk":
		ds, err = datastore.NewDiskDataStore(utils.DISK_ROOT)
	case "s3":
		ds, err = datastore.NewS3DataStore(utils.S3_BUCKET_NAME)
	default:
		err = fmt.Errorf("%w: DATA_STORE=%q", ErrUnknownStore, utils.DATA_STORE)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating data store: %w", err)
	}

	var ms metastore.MetaStore
	switch utils.META_STORE {
	case "redis":
		ms, err = metastore.NewRedisMetaStore(ctx, true)
	case "crdb":
		ms, err = newCRDBMetaStore(ctx)
	default:
		err = fmt.Errorf("%w: META_STORE=%q", ErrUnknownStore, utils.META_STORE)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating meta store: %w", err)
	}

	return &Stores{
		MetaStore: ms,
		DataStore: ds,
	}, nil
}

func newCRDBMetaStore(ctx context.Context) (*metastore.CRDBMetaStore, error) {
	if _, err := migrations.RunMigrations(utils.CRDB_DSN); err != nil {
		return nil, fmt.Errorf("error in RunMigrations: %w", err)
	}
	if err := migrations.CheckMigrations(utils.CRDB_DSN); err != nil {
		return nil, fmt.Errorf("error in CheckMigrations: %w", err)
	}
	pool, err := crdb.ConnectToDB(ctx, utils.CRDB_DSN)
	if err != nil {
		return nil, fmt.Errorf("error in crdb.ConnectToDB: %w", err)
	}
	return metastore.NewCRDBMetaStore(pool), nil
}

func (s *Stores) Shutdown(ctx context.Context) error {
	return errors.Join(s.MetaStore.Shutdown(ctx), s.DataStore.Shutdown(ctx))
}
