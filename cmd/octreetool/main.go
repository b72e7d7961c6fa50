// octreetool is a headless CLI for inspecting groundwalk scenes: collision
// index stats, soup baking, drop tests and raycasts.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Faultbox/groundwalk/internal/engine/collision"
	"github.com/Faultbox/groundwalk/internal/engine/player"
	"github.com/Faultbox/groundwalk/internal/logger"
	"github.com/Faultbox/groundwalk/internal/world"
	"github.com/Faultbox/groundwalk/pkg/formats"
	"github.com/Faultbox/groundwalk/pkg/grf"
	"github.com/Faultbox/groundwalk/pkg/math"
)

// errUsage makes main print the usage text.
var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			printUsage(os.Stderr)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}

	command, args := args[0], args[1:]
	switch command {
	case "info":
		return cmdInfo(args, out)
	case "bake":
		return cmdBake(args, out)
	case "drop":
		return cmdDrop(args, out)
	case "ray":
		return cmdRay(args, out)
	case "ground", "gnd":
		return cmdGround(args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `octreetool - groundwalk scene utility

Usage:
  octreetool <command> [options]

Commands:
  info <scene>                       Triangle count and octree stats
  bake <scene> <out.soup>            Write the scene as a baked triangle soup
  drop <scene> [frames]              Drop the player from the spawn at 60 Hz
  ray <scene> x y z dx dy dz         Cast a ray and print the first hit
  ground <file.grf> <path.gnd>       Show a ground file from an archive

Scene options (before the scene path):
  -grf <file.grf>    Archive searched for ground files (repeatable)
  -depth <n>         Octree max depth
  -leaf <n>          Octree leaf size
  -v                 Log scene loading

Examples:
  octreetool info scenes/demo.yaml
  octreetool bake -grf data.grf maps/prontera.yaml cache/prontera.soup
  octreetool drop scenes/demo.yaml 240
  octreetool ray scenes/demo.yaml 0 1.35 6 0 0 -1`)
}

type grfList []string

func (g *grfList) String() string     { return fmt.Sprint(*g) }
func (g *grfList) Set(v string) error { *g = append(*g, v); return nil }

type sceneFlags struct {
	fs      *flag.FlagSet
	grfs    grfList
	depth   *int
	leaf    *int
	verbose *bool
}

func newSceneFlags(name string) *sceneFlags {
	defaults := collision.DefaultBuildOptions()
	sf := &sceneFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	sf.fs.SetOutput(io.Discard)
	sf.fs.Var(&sf.grfs, "grf", "GRF archive searched for ground files")
	sf.depth = sf.fs.Int("depth", defaults.MaxDepth, "Octree max depth")
	sf.leaf = sf.fs.Int("leaf", defaults.LeafTriangles, "Octree leaf size")
	sf.verbose = sf.fs.Bool("v", false, "Log scene loading")
	return sf
}

// parse reads flags and requires at least minArgs positional arguments.
func (sf *sceneFlags) parse(args []string, minArgs int) error {
	if err := sf.fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if sf.fs.NArg() < minArgs {
		return errUsage
	}
	if *sf.verbose {
		opts := logger.DefaultOptions()
		opts.Level = "debug"
		return logger.Init(opts)
	}
	return nil
}

func (sf *sceneFlags) load() (*world.Scene, *collision.Octree, error) {
	scene, err := world.Load(sf.fs.Arg(0), world.Options{GRFPaths: sf.grfs})
	if err != nil {
		return nil, nil, err
	}
	idx := scene.BuildIndex(collision.BuildOptions{MaxDepth: *sf.depth, LeafTriangles: *sf.leaf})
	return scene, idx, nil
}

func cmdInfo(args []string, out io.Writer) error {
	sf := newSceneFlags("info")
	if err := sf.parse(args, 1); err != nil {
		return err
	}

	start := time.Now()
	scene, err := world.Load(sf.fs.Arg(0), world.Options{GRFPaths: sf.grfs})
	if err != nil {
		return err
	}
	loaded := time.Since(start)

	start = time.Now()
	idx := collision.Build(scene.Triangles, collision.BuildOptions{MaxDepth: *sf.depth, LeafTriangles: *sf.leaf})
	built := time.Since(start)
	st := idx.Stats()

	fmt.Fprintf(out, "Scene:     %s (%s)\n", scene.Name, sf.fs.Arg(0))
	fmt.Fprintf(out, "Objects:   %d\n", len(scene.Objects))
	fmt.Fprintf(out, "Triangles: %d (%d indexed)\n", st.Triangles, st.Indexed)
	b := scene.Bounds
	fmt.Fprintf(out, "Bounds:    (%.2f, %.2f, %.2f) - (%.2f, %.2f, %.2f)\n", b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	fmt.Fprintf(out, "Spawn:     (%.2f, %.2f, %.2f)%s\n", scene.Spawn.X, scene.Spawn.Y, scene.Spawn.Z, defaultNote(scene.HasStart))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Octree:")
	fmt.Fprintf(out, "  nodes      %d\n", st.Nodes)
	fmt.Fprintf(out, "  leaves     %d\n", st.Leaves)
	fmt.Fprintf(out, "  depth      %d\n", st.Depth)
	fmt.Fprintf(out, "  max leaf   %d\n", st.MaxLeafTriangles)
	fmt.Fprintf(out, "  references %d\n", st.References)
	fmt.Fprintf(out, "Load: %v, build: %v\n", loaded.Round(time.Microsecond), built.Round(time.Microsecond))

	interactive := 0
	for _, o := range scene.Objects {
		if o.ID != "" {
			interactive++
		}
	}
	if interactive > 0 {
		fmt.Fprintf(out, "\nInteractive objects: %d\n", interactive)
		for _, o := range scene.Objects {
			if o.ID != "" {
				fmt.Fprintf(out, "  %-16s %s (%d triangles)\n", o.ID, o.Name, o.Count)
			}
		}
	}
	return nil
}

func defaultNote(hasStart bool) string {
	if hasStart {
		return ""
	}
	return " (default)"
}

func cmdBake(args []string, out io.Writer) error {
	sf := newSceneFlags("bake")
	if err := sf.parse(args, 2); err != nil {
		return err
	}
	scene, err := world.Load(sf.fs.Arg(0), world.Options{GRFPaths: sf.grfs})
	if err != nil {
		return err
	}
	dst := sf.fs.Arg(1)
	if err := world.SaveSoup(dst, scene); err != nil {
		return err
	}
	info, err := os.Stat(dst)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Baked: %s (%d triangles, %d bytes)\n", dst, len(scene.Triangles), info.Size())
	return nil
}

func cmdDrop(args []string, out io.Writer) error {
	sf := newSceneFlags("drop")
	speed := sf.fs.Float64("walk", 0, "Walk forward (-Z) at this speed instead of standing still")
	if err := sf.parse(args, 1); err != nil {
		return err
	}
	frames := 120
	if sf.fs.NArg() > 1 {
		n, err := strconv.Atoi(sf.fs.Arg(1))
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: frames must be a positive integer", errUsage)
		}
		frames = n
	}

	scene, idx, err := sf.load()
	if err != nil {
		return err
	}
	cfg := player.DefaultConfig()
	in := player.Input{}
	if *speed > 0 {
		cfg.WalkSpeed = float32(*speed)
		in.Forward = true
	}
	c, err := player.New(cfg, idx, scene.Spawn)
	if err != nil {
		return err
	}

	const dt = 1.0 / 60
	forward := math.Vec3{Z: -1}
	fmt.Fprintf(out, "%6s %9s %9s %9s %9s  %s\n", "frame", "x", "y", "z", "vel.y", "phase")
	for i := 1; i <= frames; i++ {
		f := c.Update(dt, in, forward)
		s := c.State()
		if i%10 == 0 || i == frames || f.Respawned {
			note := ""
			if f.Respawned {
				note = " respawned"
			}
			fmt.Fprintf(out, "%6d %9.3f %9.3f %9.3f %9.3f  %s%s\n", i, f.Pose.X, f.Pose.Y, f.Pose.Z, s.Velocity.Y, f.Phase, note)
		}
	}
	return nil
}

func cmdRay(args []string, out io.Writer) error {
	sf := newSceneFlags("ray")
	maxDist := sf.fs.Float64("max", 100, "Maximum ray length")
	if err := sf.parse(args, 7); err != nil {
		return err
	}
	var v [6]float32
	for i := range v {
		f, err := strconv.ParseFloat(sf.fs.Arg(i+1), 32)
		if err != nil {
			return fmt.Errorf("%w: bad number %q", errUsage, sf.fs.Arg(i+1))
		}
		v[i] = float32(f)
	}
	dir := math.Vec3{X: v[3], Y: v[4], Z: v[5]}
	if dir.IsZero() {
		return fmt.Errorf("%w: direction must not be zero", errUsage)
	}

	scene, idx, err := sf.load()
	if err != nil {
		return err
	}
	hit, ok := idx.Raycast(collision.NewRay(math.Vec3{X: v[0], Y: v[1], Z: v[2]}, dir), float32(*maxDist))
	if !ok {
		fmt.Fprintln(out, "No hit")
		return nil
	}
	fmt.Fprintf(out, "Hit triangle %d at distance %.3f\n", hit.Index, hit.Distance)
	fmt.Fprintf(out, "  point  (%.3f, %.3f, %.3f)\n", hit.Point.X, hit.Point.Y, hit.Point.Z)
	fmt.Fprintf(out, "  normal (%.3f, %.3f, %.3f)\n", hit.Normal.X, hit.Normal.Y, hit.Normal.Z)
	if o, ok := scene.ObjectAt(hit.Index); ok {
		fmt.Fprintf(out, "  object %q type %s", o.Name, o.Type)
		if o.ID != "" {
			fmt.Fprintf(out, " id %s", o.ID)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func cmdGround(args []string, out io.Writer) error {
	if len(args) < 2 {
		return errUsage
	}
	archive, err := grf.Open(args[0])
	if err != nil {
		return err
	}
	defer archive.Close()

	data, err := archive.Read(args[1])
	if err != nil {
		return err
	}
	g, err := formats.ParseGND(data)
	if err != nil {
		return err
	}
	lo, hi := g.GetAltitudeRange()

	holes, walls := 0, 0
	for _, t := range g.Tiles {
		if t.TopSurface < 0 {
			holes++
		}
		if t.FrontSurface >= 0 {
			walls++
		}
		if t.RightSurface >= 0 {
			walls++
		}
	}

	fmt.Fprintf(out, "Ground:   %s (v%s)\n", args[1], g.Version)
	fmt.Fprintf(out, "Size:     %d x %d tiles, zoom %.1f\n", g.Width, g.Height, g.Zoom)
	fmt.Fprintf(out, "Altitude: %.1f to %.1f\n", lo, hi)
	fmt.Fprintf(out, "Textures: %d\n", len(g.Textures))
	fmt.Fprintf(out, "Holes:    %d, wall faces: %d\n", holes, walls)
	return nil
}
