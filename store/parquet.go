package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/brensch/epidemic/controller"
)

const schemaVersion = "region_round_v1"

// RegionRoundRow is one region at the end of one round.
//
// Rates are whole percent, the same units the judge sends to bots.
// Response holds the three codes the region's bot played this round and
// Error the reason it forfeited, if it did. Both are empty for dead regions.
type RegionRoundRow struct {
	MatchID  string `parquet:"match_id,dict"`
	Round    int32  `parquet:"round"`
	Mutation string `parquet:"mutation,dict"`

	RegionID int32  `parquet:"region_id"`
	Player   string `parquet:"player,dict"`
	Alive    bool   `parquet:"alive"`

	Healthy  int32 `parquet:"healthy"`
	Infected int32 `parquet:"infected"`
	Dead     int32 `parquet:"dead"`

	InfectionRate int32 `parquet:"infection_rate"`
	ContagionRate int32 `parquet:"contagion_rate"`
	LethalityRate int32 `parquet:"lethality_rate"`
	MigrationRate int32 `parquet:"migration_rate"`

	Response string `parquet:"response,dict,optional"`
	Error    string `parquet:"error,optional"`
}

// RowsFromFrame flattens a round frame into one row per region.
func RowsFromFrame(f controller.Frame) []RegionRoundRow {
	rows := make([]RegionRoundRow, 0, len(f.States))
	for _, s := range f.States {
		rows = append(rows, RegionRoundRow{
			MatchID:       f.MatchID,
			Round:         int32(f.Round),
			Mutation:      f.Mutation,
			RegionID:      int32(s.ID),
			Player:        s.Name,
			Alive:         s.Alive(),
			Healthy:       int32(s.Healthy),
			Infected:      int32(s.Infected),
			Dead:          int32(s.Dead),
			InfectionRate: int32(s.InfectionRate),
			ContagionRate: int32(s.ContagionRate),
			LethalityRate: int32(s.LethalityRate),
			MigrationRate: int32(s.MigrationRate),
			Response:      f.Responses[s.ID],
			Error:         f.Errors[s.ID],
		})
	}
	return rows
}

// MatchPath is where WriteMatchParquet puts a match's rows.
func MatchPath(outDir, matchID string) string {
	return filepath.Join(outDir, fmt.Sprintf("match_%s.parquet", matchID))
}

// WriteMatchParquet writes rows to outDir/match_<id>.parquet. The file is
// written under outDir/tmp and renamed into place so readers never observe a
// partial file.
func WriteMatchParquet(outDir, matchID string, rows []RegionRoundRow) (string, error) {
	if matchID == "" {
		return "", fmt.Errorf("match id is required")
	}
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	finalPath := MatchPath(outDir, matchID)
	tmpPath := filepath.Join(tmpDir, filepath.Base(finalPath)+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaVersion),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// ReadMatchParquet loads every row of a match file.
func ReadMatchParquet(path string) ([]RegionRoundRow, error) {
	rows, err := parquet.ReadFile[RegionRoundRow](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
