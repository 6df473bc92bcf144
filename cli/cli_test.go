package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"opendwg/dwg/dobject"
	"opendwg/dwg/dpreview"
	"opendwg/dwg/dwgtest"
	"opendwg/dwg/lbits"
)

func parse(argv ...string) (Args, error) {
	args := Args{}
	parser, err := arg.NewParser(arg.Config{IgnoreEnv: true}, &args)
	if err != nil {
		return args, err
	}
	return args, parser.Parse(argv)
}

func TestParse(t *testing.T) {
	args, err := parse("dump", "plan.dwg", "--to", "plan.json.zst", "--zstd", "--read-mode", "read_fast")
	require.NoError(t, err)

	require.NotNil(t, args.Dump)
	assert.Equal(t, "plan.dwg", args.Dump.File)
	assert.Equal(t, "plan.json.zst", args.Dump.To)
	assert.True(t, args.Dump.Zstd)
	assert.False(t, args.Dump.Force)
	assert.Equal(t, "read_fast", args.ReadMode)
	assert.Nil(t, args.Info)

	_, err = parse("dxf", "plan.dwg")
	assert.Error(t, err)
}

type RunTestSuite struct {
	Dir      string
	Drawing  string
	Progress *os.File
	R        *require.Assertions
	suite.Suite
}

func (suite *RunTestSuite) SetupTest() {
	suite.R = suite.Require()
	suite.Dir = suite.T().TempDir()

	drawing := dwgtest.NewDrawing(
		0x40, 0x41,
		&dobject.Line{
			Entity:    dobject.NewEntity(dobject.TypeLine, 0x40, dwgtest.WallsLayer),
			End:       lbits.Vector{X: 10, Y: 5},
			Extrusion: lbits.Vector{Z: 1},
		},
		&dobject.Circle{
			Entity:    dobject.NewEntity(dobject.TypeCircle, 0x41, dwgtest.DefaultLayer),
			Center:    lbits.Vector{X: 2, Y: 2},
			Radius:    1,
			Extrusion: lbits.Vector{Z: 1},
		},
	)
	drawing.ESRI(`GEOGCS["GCS_WGS_1984"]`)
	data, err := drawing.Bytes()
	suite.R.NoError(err)
	suite.Drawing = filepath.Join(suite.Dir, "plan.dwg")
	suite.R.NoError(os.WriteFile(suite.Drawing, data, 0o644))

	suite.Progress, err = os.Create(filepath.Join(suite.Dir, "progress"))
	suite.R.NoError(err)
}

func (suite *RunTestSuite) TearDownTest() {
	suite.Progress.Close()
}

func (suite *RunTestSuite) run(argv ...string) (string, error) {
	args, err := parse(argv...)
	suite.R.NoError(err)
	cfg, err := DefaultConfig().Override(args)
	suite.R.NoError(err)

	out := bytes.Buffer{}
	err = Run(args, cfg, &out, suite.Progress)
	return out.String(), err
}

func (suite *RunTestSuite) TestInfo() {
	out, err := suite.run("info", suite.Drawing)
	suite.R.NoError(err)
	suite.Contains(out, "Version:     AC1015")
	suite.Contains(out, "Layers:      2")
	suite.Contains(out, `Spatial ref: GEOGCS["GCS_WGS_1984"]`)
}

func (suite *RunTestSuite) TestLayers() {
	out, err := suite.run("layers", suite.Drawing)
	suite.R.NoError(err)
	suite.Contains(out, "WALLS")
	suite.Contains(out, "members=1")
}

func (suite *RunTestSuite) TestObject() {
	out, err := suite.run("object", suite.Drawing, "--handle", "0x40")
	suite.R.NoError(err)
	suite.Contains(out, `"handle": 64`)

	_, err = suite.run("object", suite.Drawing, "--handle", "zz")
	suite.Error(err)
}

func (suite *RunTestSuite) TestExports() {
	for _, argv := range [][]string{
		{"dump", suite.Drawing, "--to", filepath.Join(suite.Dir, "plan.json")},
		{"dump", suite.Drawing, "--to", filepath.Join(suite.Dir, "plan.json.zst"), "--zstd"},
		{"xlsx", suite.Drawing, "--to", filepath.Join(suite.Dir, "plan.xlsx")},
		{"pdf", suite.Drawing, "--to", filepath.Join(suite.Dir, "plan.pdf")},
	} {
		_, err := suite.run(argv...)
		suite.R.NoError(err, argv[0])
		info, err := os.Stat(argv[3])
		suite.R.NoError(err)
		suite.Positive(info.Size())
	}

	content, err := os.ReadFile(filepath.Join(suite.Dir, "plan.json"))
	suite.R.NoError(err)
	suite.Contains(string(content), `"metadata"`)

	_, err = suite.run("xlsx", suite.Drawing, "--to", filepath.Join(suite.Dir, "plan.xlsx"))
	suite.True(errors.Is(err, ErrDestinationExists))
	_, err = suite.run("xlsx", suite.Drawing, "--to", filepath.Join(suite.Dir, "plan.xlsx"), "--force")
	suite.NoError(err)
}

func (suite *RunTestSuite) TestErrors() {
	_, err := suite.run("info", filepath.Join(suite.Dir, "missing.dwg"))
	suite.True(errors.Is(err, ErrSourceMissing))

	_, err = suite.run("preview", suite.Drawing, "--to", filepath.Join(suite.Dir, "thumb.gif"))
	suite.True(errors.Is(err, dpreview.ErrNoPreview))
}

func TestRunTestSuite(t *testing.T) {
	suite.Run(t, new(RunTestSuite))
}
