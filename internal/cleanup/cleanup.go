package cleanup

import (
	"WooWithFeed/internal/database"
	"WooWithFeed/internal/database/model/product"
	"WooWithFeed/internal/wooapi"
	optionsWoo "WooWithFeed/internal/wooapi/options"
	"WooWithFeed/pkg/logging"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Stats counts one cleanup pass.
type Stats struct {
	RemoteTotal int
	Deleted     int
	Excluded    int
	Kept        int
	Errors      int
}

// Runner deletes remote products whose SKU is absent from the store or
// inactive in it. The exclusion set always wins over the deletion rule.
type Runner struct {
	db       *sqlx.DB
	api      wooapi.WOOAPI
	excluded map[string]bool
	dryRun   bool
}

func NewRunner(db *sqlx.DB, api wooapi.WOOAPI, excluded map[string]bool, dryRun bool) *Runner {
	if excluded == nil {
		excluded = map[string]bool{}
	}
	return &Runner{db: db, api: api, excluded: excluded, dryRun: dryRun}
}

// LoadExclusions merges a newline-delimited file with a comma-separated flag
// value. An empty path is allowed; a named but unreadable file is an error.
func LoadExclusions(path, flagValue string) (map[string]bool, error) {
	excluded := map[string]bool{}

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed os.ReadFile(%s)", path)
		}
		for _, line := range strings.Split(string(content), "\n") {
			sku := strings.TrimSpace(line)
			if sku == "" || strings.HasPrefix(sku, "#") {
				continue
			}
			excluded[sku] = true
		}
	}

	for _, sku := range strings.Split(flagValue, ",") {
		sku = strings.TrimSpace(sku)
		if sku == "" {
			continue
		}
		excluded[sku] = true
	}

	return excluded, nil
}

// Run lists the full remote catalog and removes what the store no longer
// vouches for. Per-item failures are counted and the pass continues.
func (r *Runner) Run() (*Stats, error) {

	logger := logging.GetLogger()
	logger.Info("Cleanup:>Start")
	defer logger.Info("Cleanup:>End")

	stats := &Stats{}

	remote, err := r.api.ProductListAll()
	if err != nil {
		return stats, errors.Wrap(err, "failed in wooapi.ProductListAll()")
	}
	stats.RemoteTotal = len(remote)

	local, err := product.SelectAll(r.db)
	if err != nil {
		return stats, errors.Wrap(err, "failed in product.SelectAll()")
	}
	localBySKU := make(map[string]*database.Product, len(local))
	for i := range local {
		localBySKU[local[i].SKU] = local[i]
	}

	for _, remoteProduct := range remote {
		if r.excluded[remoteProduct.Sku] {
			stats.Excluded++
			logger.Debugf("excluded, sku: %s", remoteProduct.Sku)
			continue
		}

		localProduct, found := localBySKU[remoteProduct.Sku]
		if found && localProduct.Status == database.PRODUCT_STATUS_ACTIVE {
			stats.Kept++
			continue
		}

		if r.dryRun {
			stats.Deleted++
			logger.Infof("would delete, sku: %s, id: %d", remoteProduct.Sku, remoteProduct.ID)
			continue
		}

		err = r.api.ProductDel(remoteProduct.ID, optionsWoo.Force(true))
		if err != nil {
			stats.Errors++
			logger.Errorf("delete failed, sku: %s, id: %d; %v", remoteProduct.Sku, remoteProduct.ID, err)
			continue
		}
		stats.Deleted++
		logger.Infof("deleted, sku: %s, id: %d", remoteProduct.Sku, remoteProduct.ID)
	}

	logger.Infof("cleanup done, remote:%d deleted:%d excluded:%d kept:%d errors:%d",
		stats.RemoteTotal, stats.Deleted, stats.Excluded, stats.Kept, stats.Errors)
	return stats, nil
}
