package raster

import (
	"fmt"

	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
)

// Cache holds the rasters of one document, keyed by page number, so each page
// is rendered at most once. A Cache is not safe for concurrent use; create
// one per document.
type Cache struct {
	renderer   Renderer
	resolution float64
	pages      map[int]*Raster
}

// NewCache returns an empty cache that renders through r. A non-positive
// resolution selects DefaultResolution.
func NewCache(r Renderer, resolution float64) *Cache {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return &Cache{
		renderer:   r,
		resolution: resolution,
		pages:      make(map[int]*Raster),
	}
}

// Get returns the raster for page, rendering it on first use.
func (c *Cache) Get(page *layout.Page) (*Raster, error) {
	if r, ok := c.pages[page.Number]; ok {
		return r, nil
	}

	img, err := c.renderer.Render(page, c.resolution)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page.Number, err)
	}
	r, err := NewRaster(img, page)
	if err != nil {
		return nil, err
	}
	c.pages[page.Number] = r
	return r, nil
}

// Len returns the number of rendered pages held.
func (c *Cache) Len() int {
	return len(c.pages)
}
