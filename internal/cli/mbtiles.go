package cli

import (
	"bytes"
	"compress/gzip"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shirou/gopsutil/v4/process"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/atlasdatatech/mvt/mvt"
)

var (
	mbtilesLayer   string
	mbtilesScale   float64
	mbtilesCoord   string
	mbtilesSample  int
	mbtilesZ       int
	mbtilesX       int
	mbtilesY       int
	mbtilesAll     bool
	mbtilesWorkers int
	mbtilesStats   bool
)

var mbtilesCmd = &cobra.Command{
	Use:   "mbtiles <path.mbtiles>",
	Short: "Decode tiles stored in an mbtiles sqlite database",
	Args:  cobra.ExactArgs(1),
	Run:   runMbtiles,
}

func init() {
	mbtilesCmd.Flags().StringVar(&mbtilesLayer, "layer", "", "only dump this layer (default: all)")
	mbtilesCmd.Flags().Float64Var(&mbtilesScale, "scale", 1.0, "coordinate scale factor passed to Geometries")
	mbtilesCmd.Flags().StringVar(&mbtilesCoord, "coord-type", "i32", "geometry coordinate width: i16, i32, or i64")
	mbtilesCmd.Flags().IntVar(&mbtilesSample, "sample", 3, "number of decoded geometries to print per layer")
	mbtilesCmd.Flags().IntVar(&mbtilesZ, "z", -1, "tile zoom (single-tile mode)")
	mbtilesCmd.Flags().IntVar(&mbtilesX, "x", -1, "tile column (single-tile mode)")
	mbtilesCmd.Flags().IntVar(&mbtilesY, "y", -1, "tile row, in XYZ orientation (single-tile mode)")
	mbtilesCmd.Flags().BoolVar(&mbtilesAll, "all", false, "decode every stored tile instead of one")
	mbtilesCmd.Flags().IntVar(&mbtilesWorkers, "workers", 4, "concurrent decode workers for --all")
	mbtilesCmd.Flags().BoolVar(&mbtilesStats, "stats", false, "sample process RSS before and after the run")
	rootCmd.AddCommand(mbtilesCmd)
}

func runMbtiles(cmd *cobra.Command, args []string) {
	path := args[0]
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		exitWithError("open mbtiles database", err)
		os.Exit(1)
	}
	defer db.Close()

	if mbtilesAll {
		if err := dumpAllTiles(db); err != nil {
			exitWithError("decode all tiles", err)
			os.Exit(1)
		}
		return
	}

	if mbtilesZ < 0 || mbtilesX < 0 || mbtilesY < 0 {
		exitWithError("single-tile mode requires --z, --x, and --y", fmt.Errorf("missing coordinate"))
		os.Exit(1)
	}
	blob, err := readTile(db, mbtilesZ, mbtilesX, mbtilesY)
	if err != nil {
		exitWithError("read tile row", err)
		os.Exit(1)
	}
	buf, err := gunzipIfNeeded(blob)
	if err != nil {
		exitWithError("gunzip tile blob", err)
		os.Exit(1)
	}
	if err := dumpTile(buf, mbtilesLayer, float32(mbtilesScale), mbtilesCoord, mbtilesSample); err != nil {
		exitWithError("decode tile", err)
		os.Exit(1)
	}
}

// readTile loads the tile stored at (z, x, y) in XYZ orientation,
// undoing the TMS row flip mbtiles writers apply on
// write (tile_row = 2^z - 1 - y).
func readTile(db *sql.DB, z, x, y int) ([]byte, error) {
	row := 1<<uint(z) - 1 - y
	var blob []byte
	err := db.QueryRow(
		"select tile_data from tiles where zoom_level = ? and tile_column = ? and tile_row = ?",
		z, x, row,
	).Scan(&blob)
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func gunzipIfNeeded(blob []byte) ([]byte, error) {
	if len(blob) < 2 || blob[0] != 0x1f || blob[1] != 0x8b {
		return blob, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

type tileRef struct {
	z, x, y int
	blob    []byte
}

// dumpAllTiles fans the tiles table out across mbtilesWorkers goroutines
// with errgroup, each decoding its own tile independently — mvt.Tile and
// mvt.Layer hold no shared mutable state, so no further synchronization
// is needed.
func dumpAllTiles(db *sql.DB) error {
	var before, after uint64
	if mbtilesStats {
		var err error
		before, err = sampleRSS()
		if err != nil {
			log.WithError(err).Warn("could not sample RSS before run")
		}
	}

	rows, err := db.Query("select zoom_level, tile_column, tile_row, tile_data from tiles")
	if err != nil {
		return err
	}
	defer rows.Close()

	var tiles []tileRef
	for rows.Next() {
		var z, x, row int
		var blob []byte
		if err := rows.Scan(&z, &x, &row, &blob); err != nil {
			return err
		}
		y := 1<<uint(z) - 1 - row
		tiles = append(tiles, tileRef{z: z, x: x, y: y, blob: blob})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(mbtilesWorkers)
	for _, t := range tiles {
		t := t
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			buf, err := gunzipIfNeeded(t.blob)
			if err != nil {
				return fmt.Errorf("tile z=%d x=%d y=%d: %w", t.z, t.x, t.y, err)
			}
			tile, err := mvt.New(buf)
			if err != nil {
				log.WithError(err).Warnf("tile z=%d x=%d y=%d: skipped", t.z, t.x, t.y)
				return nil
			}
			log.Debugf("tile z=%d x=%d y=%d: %d layers", t.z, t.x, t.y, len(tile.LayerNames()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Infof("decoded %d tiles with %d workers", len(tiles), mbtilesWorkers)
	if mbtilesStats {
		var err error
		after, err = sampleRSS()
		if err != nil {
			log.WithError(err).Warn("could not sample RSS after run")
			return nil
		}
		log.Infof("rss before=%d bytes after=%d bytes delta=%d bytes", before, after, int64(after)-int64(before))
	}
	return nil
}

func sampleRSS() (uint64, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	info, err := p.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}
