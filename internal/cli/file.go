package cli

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tysonmote/gommap"

	"github.com/atlasdatatech/mvt/mvt"
)

var (
	fileLayer     string
	fileScale     float64
	fileCoordType string
	fileSample    int
)

var fileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Decode a raw .mvt/.pbf tile file",
	Args:  cobra.ExactArgs(1),
	Run:   runFile,
}

func init() {
	fileCmd.Flags().StringVar(&fileLayer, "layer", "", "only dump this layer (default: all)")
	fileCmd.Flags().Float64Var(&fileScale, "scale", 1.0, "coordinate scale factor passed to Geometries")
	fileCmd.Flags().StringVar(&fileCoordType, "coord-type", "i32", "geometry coordinate width: i16, i32, or i64")
	fileCmd.Flags().IntVar(&fileSample, "sample", 3, "number of decoded geometries to print per layer")
	rootCmd.AddCommand(fileCmd)
}

func runFile(cmd *cobra.Command, args []string) {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		exitWithError("open tile file", err)
		os.Exit(1)
	}
	defer f.Close()

	mm, err := gommap.Map(f.Fd(), gommap.PROT_READ, gommap.MAP_PRIVATE)
	if err != nil {
		exitWithError("mmap tile file", err)
		os.Exit(1)
	}
	defer mm.UnsafeUnmap()

	if err := dumpTile(mm, fileLayer, float32(fileScale), fileCoordType, fileSample); err != nil {
		exitWithError("decode tile", err)
		os.Exit(1)
	}
}

// dumpTile is shared by the file and mbtiles subcommands: it builds a
// mvt.Tile over buf and prints every matching layer's name, feature
// count, and a sample of decoded geometries.
func dumpTile(buf []byte, onlyLayer string, scale float32, coordType string, sample int) error {
	tile, err := mvt.New(buf)
	if err != nil {
		return err
	}

	names := tile.LayerNames()
	if onlyLayer != "" {
		names = filterLayerNames(names, onlyLayer)
	}
	for _, name := range names {
		layer, err := tile.GetLayer(name)
		if err != nil {
			return fmt.Errorf("layer %q: %w", name, err)
		}
		fmt.Printf("layer %q version=%d extent=%d features=%d\n",
			layer.Name(), layer.Version(), layer.Extent(), layer.FeatureCount())

		n := sample
		if n > layer.FeatureCount() {
			n = layer.FeatureCount()
		}
		for i := 0; i < n; i++ {
			feature, err := layer.GetFeature(i)
			if err != nil {
				log.WithError(err).Warnf("layer %q feature %d: skipped", name, i)
				continue
			}
			line, err := formatGeometry(feature, scale, coordType)
			if err != nil {
				log.WithError(err).Warnf("layer %q feature %d: geometry skipped", name, i)
				continue
			}
			fmt.Printf("  [%d] id=%s type=%s %s\n", i, identifierString(feature.ID()), feature.Type(), line)
		}
	}
	return nil
}

func filterLayerNames(names []string, want string) []string {
	for _, n := range names {
		if n == want {
			return []string{n}
		}
	}
	return nil
}

func identifierString(id mvt.Identifier) string {
	if id.IsNull() {
		return "-"
	}
	if u, ok := id.Uint64(); ok {
		return fmt.Sprintf("%d", u)
	}
	if i, ok := id.Int64(); ok {
		return fmt.Sprintf("%d", i)
	}
	if d, ok := id.Float64(); ok {
		return fmt.Sprintf("%g", d)
	}
	if s, ok := id.String(); ok {
		return s
	}
	return "-"
}

// formatGeometry dispatches to the Geometries generic instantiation
// matching coordType, since a type parameter can't be chosen from a
// runtime string directly.
func formatGeometry(f *mvt.Feature, scale float32, coordType string) (string, error) {
	switch coordType {
	case "i16":
		g, err := mvt.Geometries[int16](f, scale)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("paths=%d points=%d", len(g), countPoints16(g)), nil
	case "i64":
		g, err := mvt.Geometries[int64](f, scale)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("paths=%d points=%d", len(g), countPoints64(g)), nil
	case "i32", "":
		g, err := mvt.Geometries[int32](f, scale)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("paths=%d points=%d", len(g), countPoints32(g)), nil
	default:
		return "", fmt.Errorf("unknown coord-type %q (want i16, i32, or i64)", coordType)
	}
}

func countPoints16(g mvt.GeometryCollection[int16]) int { return countPoints(g) }
func countPoints32(g mvt.GeometryCollection[int32]) int { return countPoints(g) }
func countPoints64(g mvt.GeometryCollection[int64]) int { return countPoints(g) }

func countPoints[C mvt.Coordinate](g mvt.GeometryCollection[C]) int {
	n := 0
	for _, p := range g {
		n += len(p)
	}
	return n
}
