package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"fbx-scene-import/internal/diag"
	"fbx-scene-import/internal/loader"
	"fbx-scene-import/internal/mathutil"
	"fbx-scene-import/internal/scene"
	"fbx-scene-import/internal/transform"
	"fbx-scene-import/internal/units"
)

func main() {
	unit := flag.String("unit", "", "Normalize to this unit before printing (e.g. m)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-unit m] <scene file>")
		os.Exit(2)
	}

	im, err := loader.Open(flag.Arg(0))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer im.Close()

	s, err := im.Import()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	sink := diag.NewWriterSink(os.Stderr, diag.Warning)
	fmt.Printf("Scene %q (%s %s)\n", s.Name, im.Format(), im.FileVersion())
	fmt.Printf("  Unit: %s, Axis: %s\n", s.Settings.SystemUnit, s.Settings.AxisSystem)

	if *unit != "" {
		target, err := scene.ParseSystemUnit(*unit)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		rep := units.Normalize(s, units.Target{Unit: target, Axis: units.EngineTarget.Axis}, sink)
		fmt.Printf("  Normalized to %s: factor %g, %d nodes rescaled\n", target, rep.Factor, rep.Rescaled)
	}

	printNode(s.Root, 0, sink)
}

func printNode(n *scene.Node, depth int, sink diag.Sink) {
	if n == nil {
		return
	}
	pad := strings.Repeat("  ", depth)
	r := transform.Resolve(n, sink)
	euler := mathutil.QuatToEulerXYZ(r.Rotation)
	fmt.Printf("%s- %s\n", pad, n.Name)
	fmt.Printf("%s    T(%.3f, %.3f, %.3f) R(%.1f, %.1f, %.1f) S(%.3f, %.3f, %.3f)\n", pad,
		r.Translation[0], r.Translation[1], r.Translation[2],
		euler.X, euler.Y, euler.Z,
		r.Scale[0], r.Scale[1], r.Scale[2])

	if m := n.Mesh; m != nil {
		fmt.Printf("%s    Mesh: points=%d, polygons=%d, layers=%d\n", pad, m.ControlPointsCount(), m.PolygonCount(), m.LayerCount())
		for li, l := range m.Layers {
			if l == nil {
				continue
			}
			slots := make([]scene.ElementType, 0, len(l.UVSets))
			for t := range l.UVSets {
				slots = append(slots, t)
			}
			sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
			for _, t := range slots {
				el := l.UVSets[t]
				fmt.Printf("%s      Layer[%d] %s: %q %s/%s direct=%d index=%d\n", pad, li, t,
					el.Name, el.MappingMode, el.ReferenceMode, len(el.Direct), len(el.Index))
			}
		}
	}

	for _, c := range n.Children {
		printNode(c, depth+1, sink)
	}
}
