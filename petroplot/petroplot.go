/*
 * petroplot.go, part of gopetro.
 *
 *
 * Copyright 2025 The gopetro Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

//Package petroplot produces plots, in png format, for series of
//equilibrated rocks along a path, typically a temperature or pressure
//path: the evolution of the modal composition, and of the density of
//the solid assemblage.
package petroplot

import (
	"fmt"
	"image/color"
	"math"

	petro "github.com/gopetro/gopetro"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

//ModeEvolution plots the modal composition of the solids (the vol% of
//each mineral) against the path variable xs, which must have one value
//per rock. Each mineral name becomes one series; a mineral absent from
//an assemblage plots as zero there. The plot is saved as plotname.png.
func ModeEvolution(rocks []*petro.Rock, xs []float64, xlabel, plotname string) error {
	if rocks == nil {
		panic("Given nil data")
	}
	if len(rocks) == 0 {
		return Error{NoRocks, plotname, []string{"ModeEvolution"}, true}
	}
	if len(xs) != len(rocks) {
		return Error{MismatchedLengths, plotname, []string{"ModeEvolution"}, true}
	}
	//every mineral name seen along the path, in order of appearance
	names := make([]string, 0, len(rocks[0].Minerals))
	for _, rock := range rocks {
		for _, m := range rock.Minerals {
			if !isInString(names, m.Name) {
				names = append(names, m.Name)
			}
		}
	}
	if len(names) == 0 {
		return Error{NoSolids, plotname, []string{"ModeEvolution"}, true}
	}
	p := basicPlot("Modal composition", xlabel, "vol% of solids")
	for key, name := range names {
		pts := make(plotter.XYs, len(rocks))
		for i, rock := range rocks {
			pts[i].X = xs[i]
			if m := rock.Mineral(name); m != nil {
				pts[i].Y = m.VolPercent
			}
		}
		l, s, err := plotter.NewLinePoints(pts)
		if err != nil {
			return Error{err.Error(), plotname, []string{"ModeEvolution"}, true}
		}
		r, g, b := colors(key, len(names))
		l.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		s.GlyphStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		p.Add(l, s)
		p.Legend.Add(name, l, s)
	}
	filename := fmt.Sprintf("%s.png", plotname)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return Error{err.Error(), plotname, []string{"ModeEvolution"}, true}
	}
	return nil
}

//DensityEvolution plots the density of the solid assemblage against the
//path variable xs, which must have one value per rock. The plot is
//saved as plotname.png.
func DensityEvolution(rocks []*petro.Rock, xs []float64, xlabel, plotname string) error {
	if rocks == nil {
		panic("Given nil data")
	}
	if len(rocks) == 0 {
		return Error{NoRocks, plotname, []string{"DensityEvolution"}, true}
	}
	if len(xs) != len(rocks) {
		return Error{MismatchedLengths, plotname, []string{"DensityEvolution"}, true}
	}
	p := basicPlot("Solid density", xlabel, "density [g/ccm]")
	pts := make(plotter.XYs, len(rocks))
	for i, rock := range rocks {
		pts[i].X = xs[i]
		pts[i].Y = rock.SolidDensity
	}
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return Error{err.Error(), plotname, []string{"DensityEvolution"}, true}
	}
	r, g, b := colors(0, 1)
	l.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
	s.GlyphStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
	p.Add(l, s)
	filename := fmt.Sprintf("%s.png", plotname)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return Error{err.Error(), plotname, []string{"DensityEvolution"}, true}
	}
	return nil
}

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r = v
		g = t
		b = p
	case 1:
		r = q
		g = v
		b = p
	case 2:
		r = p
		g = v
		b = t
	case 3:
		r = p
		g = q
		b = v
	case 4:
		r = t
		g = p
		b = v
	default: //case 5
		r = v
		g = p
		b = q
	}
	r = r * conversion
	g = g * conversion
	b = b * conversion
	return uint8(r), uint8(g), uint8(b)
}

//colors steps the hue so that series key out of steps gets a color as
//far as possible from its neighbors, skipping the yellows that read
//poorly on white.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64(key)*norm + 20.0
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	s := 1.0
	v := 1.0
	r, g, b = iHVS2RGB(h, v, s)
	return r, g, b
}

//isInString returns true if test is in container, false otherwise.
func isInString(container []string, test string) bool {
	if container == nil {
		return false
	}
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}

//Errors

//Error is the general structure for plotting errors. It fulfills
//petro.Error.
type Error struct {
	message  string
	plotname string //the plot being produced, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("petroplot %s error: %s", err.plotname, err.message)
}

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since E.deco is a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//PlotName returns the plot to which the failing call was associated
func (err Error) PlotName() string { return err.plotname }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	NoRocks           = "Given no rocks to plot"
	NoSolids          = "No solid phases in the given rocks"
	MismatchedLengths = "Need exactly one path value per rock"
)
