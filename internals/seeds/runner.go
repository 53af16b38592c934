package seeds

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"time"

	"thesisflow_backend/internals/repository"
	identitySeed "thesisflow_backend/internals/seeds/identity"
)

const identityDataPath = "internals/seeds/identity/data_identity.json"

// RunAllSeeds loads the identity dataset from disk, or the built-in demo
// dataset when the file is missing.
func RunAllSeeds(ctx context.Context, store repository.Store) error {
	ds, err := identitySeed.LoadDataset(identityDataPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		log.Printf("[Seed] %s not found, using demo dataset", identityDataPath)
		ds = identitySeed.Demo(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	return identitySeed.Apply(ctx, store, ds)
}
