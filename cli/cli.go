package cli

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/briandowns/spinner"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"

	"opendwg/dlog"
	"opendwg/ds"
	"opendwg/dwg"
	"opendwg/dwg/dpreview"
	"opendwg/export"
	"opendwg/ui"
)

type (
	Args struct {
		Config             string `help:"path to a YAML config file" placeholder:"FILE"`
		Verbose            bool   `arg:"-v" help:"log objects that fail to decode"`
		ReadMode           string `arg:"--read-mode" help:"read_all, read_fast or read_fastest" placeholder:"MODE"`
		IncludeUnsupported bool   `arg:"--include-unsupported" help:"keep unsupported entities on their layers"`

		Info    *InfoCmd    `arg:"subcommand:info" help:"print metadata and counts"`
		Layers  *InfoCmd    `arg:"subcommand:layers" help:"list layers"`
		Object  *ObjectCmd  `arg:"subcommand:object" help:"print one decoded object as JSON"`
		Dump    *DumpCmd    `arg:"subcommand:dump" help:"write the drawing as JSON"`
		DXF     *ExportCmd  `arg:"subcommand:dxf" help:"write the layers as DXF"`
		PDF     *ExportCmd  `arg:"subcommand:pdf" help:"plot the layers to PDF"`
		XLSX    *ExportCmd  `arg:"subcommand:xlsx" help:"write a layer and entity inventory"`
		Preview *ExportCmd  `arg:"subcommand:preview" help:"extract the thumbnail (.png, .bmp or .wmf)"`
		Browse  *BrowseCmd  `arg:"subcommand:browse" help:"browse layers in the terminal"`
	}
	// Source is the drawing a subcommand reads.
	Source struct {
		File string `arg:"positional,required" help:"path to the drawing" placeholder:"DRAWING"`
	}
	InfoCmd struct {
		Source
	}
	ObjectCmd struct {
		Source
		Handle      string `arg:"required" help:"object handle in hex" placeholder:"HEX"`
		HandlesOnly bool   `arg:"--handles-only" help:"stop after the common object data"`
	}
	// ExportCmd writes one output file. The destination is not overwritten
	// unless Force is set.
	ExportCmd struct {
		Source
		To    string `arg:"required" help:"path to destination file" placeholder:"FILE"`
		Force bool   `help:"overwrite the destination file"`
	}
	DumpCmd struct {
		ExportCmd
		Zstd bool `help:"compress the JSON with zstd"`
	}
	BrowseCmd struct {
		Path string `arg:"positional" help:"drawing, or folder to pick a drawing from" placeholder:"PATH"`
	}
)

var (
	ErrDestinationExists = errors.New("destination file exists, use --force to overwrite it")
	ErrSourceMissing     = errors.New("source file does not exist")
	ErrPreviewFormat     = errors.New("preview destination must end in .png, .bmp or .wmf")
)

func (Args) Description() string {
	des := strings.Join(
		[]string{
			"Layers out of a DWG.\n",
			"A CLI utility to read AutoCAD R2000 drawings and write their layers",
			"as JSON, DXF, PDF or XLSX.",
		},
		"\n",
	)
	des += "\n"
	return des
}

func CheckExistence(path string) bool {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	return err == nil
}

// withSpinner runs f while a spinner turns on w.
func withSpinner(w *os.File, suffix string, f func() error) error {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithWriterFile(w),
		spinner.WithSuffix(" "+suffix),
	)
	s.Start()
	defer s.Stop()
	return f()
}

func openDrawing(path string, cfg Config, progress *os.File) (*dwg.File, error) {
	if !CheckExistence(path) {
		return nil, errors.Wrapf(ErrSourceMissing, `"%s"`, path)
	}
	var file *dwg.File
	err := withSpinner(progress, "reading "+filepath.Base(path), func() error {
		var err error
		file, err = dwg.OpenFile(path, cfg.DrawingOptions())
		return err
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}

func createDestination(cmd ExportCmd) (*os.File, error) {
	if CheckExistence(cmd.To) && !cmd.Force {
		return nil, errors.Wrapf(ErrDestinationExists, `"%s"`, cmd.To)
	}
	f, err := os.Create(cmd.To)
	if err != nil {
		return nil, errors.Wrap(err, "createDestination error")
	}
	return f, nil
}

// writeTo creates the destination of cmd and lets write fill it.
func writeTo(cmd ExportCmd, write func(w io.Writer) error) error {
	f, err := createDestination(cmd)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func PrintInfo(out io.Writer, file *dwg.File) {
	metadata := file.Metadata()
	fmt.Fprintf(out, "Version:     %s (maintenance %d)\n", metadata.Version, metadata.Maintenance)
	fmt.Fprintf(out, "Code page:   %d\n", metadata.CodePage)
	fmt.Fprintf(out, "Units:       %d\n", metadata.Units)
	fmt.Fprintf(out, "Objects:     %d\n", file.Index.Len())
	fmt.Fprintf(out, "Classes:     %d\n", len(file.Classes.Classes))
	fmt.Fprintf(out, "Layers:      %d\n", len(file.Layers()))
	if metadata.PreviewSeek > 0 {
		fmt.Fprintf(out, "Preview at:  %d\n", metadata.PreviewSeek)
	}
	if prj := file.ESRISpatialRef(); prj != "" {
		fmt.Fprintf(out, "Spatial ref: %s\n", prj)
	}
}

func PrintLayers(out io.Writer, file *dwg.File) {
	for i, layer := range file.Layers() {
		fmt.Fprintf(
			out, "%3d  %-24s handle=%X color=%d on=%t frozen=%t locked=%t members=%d",
			i, layer.Name, layer.Handle, layer.Color, layer.On, layer.Frozen, layer.Locked, len(layer.Members),
		)
		if tags := layer.TagNames(); len(tags) > 0 {
			fmt.Fprintf(out, " tags=%s", strings.Join(tags, ","))
		}
		fmt.Fprintln(out)
	}
}

func PrintObject(out io.Writer, file *dwg.File, handle string, handlesOnly bool) error {
	value, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(handle), "0x"), 16, 64)
	if err != nil {
		return errors.Wrapf(err, `PrintObject error parsing handle "%s"`, handle)
	}
	object, err := file.Object(value, handlesOnly)
	if err != nil {
		return errors.Wrap(err, "PrintObject error")
	}
	fmt.Fprintln(out, ds.DumpJSON(object, true))
	return nil
}

func WritePreview(cmd ExportCmd, file *dwg.File) error {
	preview, err := file.Preview()
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(cmd.To)) {
	case ".wmf":
		wmf, ok := preview.WMF()
		if !ok {
			return errors.Wrap(dpreview.ErrNoPreview, "WritePreview error: no metafile")
		}
		return writeTo(cmd, func(w io.Writer) error {
			_, err := w.Write(wmf)
			return err
		})
	case ".bmp", ".png":
		img, err := preview.BMP()
		if err != nil {
			return err
		}
		return writeTo(cmd, func(w io.Writer) error {
			if strings.EqualFold(filepath.Ext(cmd.To), ".png") {
				return png.Encode(w, img)
			}
			return bmp.Encode(w, img)
		})
	default:
		return errors.Wrapf(ErrPreviewFormat, `"%s"`, cmd.To)
	}
}

// Run executes the subcommand picked in args. Results go to out. Spinners
// turn on progress when it is a terminal.
func Run(args Args, cfg Config, out io.Writer, progress *os.File) error {
	if args.Browse != nil {
		return browse(args.Browse.Path, cfg)
	}

	var source string
	switch {
	case args.Info != nil:
		source = args.Info.File
	case args.Layers != nil:
		source = args.Layers.File
	case args.Object != nil:
		source = args.Object.File
	case args.Dump != nil:
		source = args.Dump.File
	case args.DXF != nil:
		source = args.DXF.File
	case args.PDF != nil:
		source = args.PDF.File
	case args.XLSX != nil:
		source = args.XLSX.File
	case args.Preview != nil:
		source = args.Preview.File
	default:
		return browse("", cfg)
	}
	file, err := openDrawing(source, cfg, progress)
	if err != nil {
		return err
	}

	switch {
	case args.Info != nil:
		PrintInfo(out, file)
		return nil
	case args.Layers != nil:
		PrintLayers(out, file)
		return nil
	case args.Object != nil:
		return PrintObject(out, file, args.Object.Handle, args.Object.HandlesOnly)
	case args.Dump != nil:
		return withSpinner(progress, "writing "+args.Dump.To, func() error {
			return writeTo(args.Dump.ExportCmd, func(w io.Writer) error {
				return export.WriteJSON(w, file, args.Dump.Zstd)
			})
		})
	case args.DXF != nil:
		if CheckExistence(args.DXF.To) && !args.DXF.Force {
			return errors.Wrapf(ErrDestinationExists, `"%s"`, args.DXF.To)
		}
		return withSpinner(progress, "writing "+args.DXF.To, func() error {
			return export.WriteDXF(args.DXF.To, file, cfg.Export)
		})
	case args.PDF != nil:
		return withSpinner(progress, "writing "+args.PDF.To, func() error {
			return writeTo(*args.PDF, func(w io.Writer) error {
				return export.WritePDF(w, file, cfg.Export)
			})
		})
	case args.XLSX != nil:
		return withSpinner(progress, "writing "+args.XLSX.To, func() error {
			return writeTo(*args.XLSX, func(w io.Writer) error {
				return export.WriteXLSX(w, file)
			})
		})
	default:
		return WritePreview(*args.Preview, file)
	}
}

func browse(path string, cfg Config) error {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "browse error getting current working directory")
		}
		path = cwd
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "browse error")
	}
	if info.IsDir() {
		return ui.StartSelector(path, cfg.DrawingOptions())
	}
	file, err := dwg.OpenFile(path, cfg.DrawingOptions())
	if err != nil {
		return err
	}
	return ui.StartBrowser(file)
}

func Start() {
	args := Args{}
	arg.MustParse(&args)

	cfg, err := LoadConfig(args.Config)
	if err != nil {
		dlog.Fatalf("%v", err)
	}
	cfg, err = cfg.Override(args)
	if err != nil {
		dlog.Fatalf("%v", err)
	}
	rotator, err := SetupLogging(cfg)
	if err != nil {
		dlog.Fatalf("%v", err)
	}
	if rotator != nil {
		defer rotator.Close()
	}

	if err := Run(args, cfg, os.Stdout, os.Stderr); err != nil {
		dlog.Logf("%v", err)
		if rotator != nil {
			rotator.Close()
		}
		os.Exit(1)
	}
}
