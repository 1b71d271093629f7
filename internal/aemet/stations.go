package aemet

import (
	"context"

	"github.com/lanecodes/aemet-wind/internal/models"
)

// Dataset 'Inventario de estaciones de Valores Climatológicos' on the
// Acceso General page.
const stationInventoryPath = "/api/valores/climatologicos/inventarioestaciones/todasestaciones/"

// StationInventory returns the full inventory of climatological stations.
func (c *Client) StationInventory(ctx context.Context) ([]models.Station, error) {
	var stations []models.Station
	if err := c.FetchData(ctx, stationInventoryPath, &stations); err != nil {
		return nil, err
	}
	c.logger.Info().
		Ctx(ctx).
		Int("count", len(stations)).
		Msg("fetched station inventory")
	return stations, nil
}

// StationInventoryMetadata returns the field descriptions for the
// station inventory dataset.
func (c *Client) StationInventoryMetadata(ctx context.Context) (models.Metadata, error) {
	var meta models.Metadata
	if err := c.FetchMetadata(ctx, stationInventoryPath, &meta); err != nil {
		return models.Metadata{}, err
	}
	return meta, nil
}
