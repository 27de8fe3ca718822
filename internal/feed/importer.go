package feed

import (
	"context"

	"gamedex/backend/internal/catalog"
	"gamedex/backend/internal/logger"
	"gamedex/backend/internal/models"

	"golang.org/x/sync/errgroup"
)

// Importer runs one ingestion pass: fetch both platform feeds, normalize
// every entry and merge the candidates into the catalog.
type Importer struct {
	fetcher    Fetcher
	store      catalog.Store
	iosURL     string
	androidURL string
	log        *logger.Logger
}

func NewImporter(fetcher Fetcher, store catalog.Store, iosURL, androidURL string, baseLog *logger.Logger) *Importer {
	return &Importer{
		fetcher:    fetcher,
		store:      store,
		iosURL:     iosURL,
		androidURL: androidURL,
		log:        baseLog.With("component", "importer"),
	}
}

// Run executes one ingestion run and returns the number of newly created
// games. Both feeds are fetched concurrently; if either fetch fails the run
// fails without touching the catalog, so a retried run is always safe.
// Already-known games are skipped by the store's merge key, never duplicated.
func (imp *Importer) Run(ctx context.Context) (int, error) {
	var iosBatches, androidBatches [][]RawEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		iosBatches, err = imp.fetcher.Fetch(gctx, imp.iosURL)
		return err
	})
	g.Go(func() error {
		var err error
		androidBatches, err = imp.fetcher.Fetch(gctx, imp.androidURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	// iOS entries first, then Android, preserving within-feed order.
	var candidates []models.Game
	for _, batch := range iosBatches {
		for _, entry := range batch {
			candidates = append(candidates, Normalize(entry, models.PlatformIOS))
		}
	}
	for _, batch := range androidBatches {
		for _, entry := range batch {
			candidates = append(candidates, Normalize(entry, models.PlatformAndroid))
		}
	}

	if len(candidates) == 0 {
		imp.log.Info("ingestion run found no feed entries")
		return 0, nil
	}

	created, err := imp.store.BulkMerge(ctx, candidates)
	if err != nil {
		return 0, err
	}

	imp.log.Info("ingestion run complete", "candidates", len(candidates), "created", created)
	return created, nil
}
