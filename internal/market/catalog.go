// Package market provides the tradable-asset catalog and a simulated quote
// feed. There is no upstream exchange; quotes are a random walk around each
// asset's configured base price.
package market

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// Asset describes one tradable asset from the catalog file.
type Asset struct {
	Id        string `yaml:"id"`
	Symbol    string `yaml:"symbol"`
	Name      string `yaml:"name"`
	BasePrice string `yaml:"base_price"`

	price decimal.Decimal
}

// Price returns the configured base price.
func (a Asset) Price() decimal.Decimal {
	return a.price
}

type catalogFile struct {
	Assets []Asset `yaml:"assets"`
}

// LoadCatalog reads the asset catalog from a YAML file.
func LoadCatalog(assetsFile string) ([]Asset, error) {
	var assetsPath string
	if filepath.IsAbs(assetsFile) {
		assetsPath = assetsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		assetsPath = filepath.Join(wd, assetsFile)
	}

	data, err := os.ReadFile(assetsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", assetsFile, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", assetsFile, err)
	}

	for i, asset := range file.Assets {
		if asset.Id == "" {
			return nil, fmt.Errorf("asset at index %d missing id", i)
		}
		if asset.Symbol == "" {
			return nil, fmt.Errorf("asset at index %d missing symbol", i)
		}
		price, err := decimal.NewFromString(asset.BasePrice)
		if err != nil {
			return nil, fmt.Errorf("asset %s has invalid base_price %q: %w", asset.Id, asset.BasePrice, err)
		}
		if price.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("asset %s base_price must be positive", asset.Id)
		}
		file.Assets[i].price = price
	}

	return file.Assets, nil
}

// FindAsset returns the catalog entry with the given id, or an error.
func FindAsset(assets []Asset, assetId string) (*Asset, error) {
	for i := range assets {
		if assets[i].Id == assetId {
			return &assets[i], nil
		}
	}
	return nil, fmt.Errorf("unknown asset: %s", assetId)
}
