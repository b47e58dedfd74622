// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sgemm

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ajroetker/go-sgemm/hwy"
	"github.com/pkg/errors"
)

// PackingStrategy selects how the A operand is packed inside a macro tile.
type PackingStrategy int

const (
	// PackAOnce packs every row panel of A once per macro tile and reuses
	// it across all column tiles.
	PackAOnce PackingStrategy = iota

	// PackPerMicroTile re-packs the row panel of A for every micro tile.
	// It needs a single panel of scratch and is kept for comparison.
	PackPerMicroTile
)

// String returns the name used by ParsePackingStrategy.
func (s PackingStrategy) String() string {
	switch s {
	case PackAOnce:
		return "once"
	case PackPerMicroTile:
		return "per-tile"
	default:
		return fmt.Sprintf("PackingStrategy(%d)", int(s))
	}
}

// ParsePackingStrategy parses "once" or "per-tile".
func ParsePackingStrategy(s string) (PackingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "once", "":
		return PackAOnce, nil
	case "per-tile", "pertile", "per-micro-tile":
		return PackPerMicroTile, nil
	}
	return 0, errors.Errorf("sgemm: unknown packing strategy %q, want \"once\" or \"per-tile\"", s)
}

// Params defines the blocking parameters of a Kernel.
//
//   - MacroBlock (Bm): edge of the cache tile, used for rows, columns and
//     depth. It does not need to be a multiple of MicroTile.
//   - MicroTile (Bs): edge of the register tile computed by the vector
//     micro-kernel: 4, 8 or 16.
//   - Lanes: float32 lanes per vector; must divide MicroTile. Zero selects
//     hwy.MaxLanes[float32]() capped at MicroTile.
//   - Packing: how A is packed, see PackingStrategy.
//
// Any valid combination produces the same result within floating-point
// tolerance; they differ only in speed.
type Params struct {
	MacroBlock int
	MicroTile  int
	Lanes      int
	Packing    PackingStrategy
}

// Blocking parameters tuned for different vector widths.
// The macro block is sized for L1/L2: a 128×128 float32 panel is 64KB.

// ParamsAVX512 returns blocking parameters for 512-bit vectors (16 lanes).
func ParamsAVX512() Params {
	return Params{
		MacroBlock: 128,
		MicroTile:  16, // 16 columns × 1 vector = 16 accumulators
		Lanes:      16,
	}
}

// ParamsAVX2 returns blocking parameters for 256-bit vectors (8 lanes).
func ParamsAVX2() Params {
	return Params{
		MacroBlock: 128,
		MicroTile:  8, // 8 columns × 1 vector = 8 accumulators
		Lanes:      8,
	}
}

// ParamsNEON returns blocking parameters for 128-bit vectors (4 lanes).
func ParamsNEON() Params {
	return Params{
		MacroBlock: 128,
		MicroTile:  8, // 8 columns × 2 vectors = 16 accumulators
		Lanes:      4,
	}
}

// ParamsSmall returns the 32/4 configuration: small cache tiles and a
// 4×4 register tile of 4-lane vectors.
func ParamsSmall() Params {
	return Params{
		MacroBlock: 32,
		MicroTile:  4,
		Lanes:      4,
	}
}

// ParamsTiny returns the smallest configuration: the macro tile is the
// micro tile. Useful to exercise the orchestrator's remainder handling.
func ParamsTiny() Params {
	return Params{
		MacroBlock: 4,
		MicroTile:  4,
		Lanes:      4,
	}
}

// DefaultParams returns the parameters for the vector width detected by hwy.
func DefaultParams() Params {
	return ParamsForTag(hwy.ScalableTag[float32]{})
}

// ParamsForTag returns the parameters tuned for the tag's vector width.
func ParamsForTag(tag hwy.Tag) Params {
	switch tag.Width() {
	case 64:
		return ParamsAVX512()
	case 32:
		return ParamsAVX2()
	default:
		return ParamsNEON()
	}
}

// ParamsFromEnv returns DefaultParams overridden by the environment variables
// SGEMM_MACRO_BLOCK, SGEMM_MICRO_TILE, SGEMM_LANES and SGEMM_PACKING.
// The result is validated.
func ParamsFromEnv() (Params, error) {
	p := DefaultParams()
	ints := []struct {
		name string
		dst  *int
	}{
		{"SGEMM_MACRO_BLOCK", &p.MacroBlock},
		{"SGEMM_MICRO_TILE", &p.MicroTile},
		{"SGEMM_LANES", &p.Lanes},
	}
	for _, v := range ints {
		s, found := os.LookupEnv(v.name)
		if !found || s == "" {
			continue
		}
		x, err := strconv.Atoi(s)
		if err != nil {
			return p, errors.Wrapf(err, "sgemm: parsing $%s", v.name)
		}
		*v.dst = x
	}
	if s, found := os.LookupEnv("SGEMM_PACKING"); found {
		packing, err := ParsePackingStrategy(s)
		if err != nil {
			return p, errors.WithMessage(err, "$SGEMM_PACKING")
		}
		p.Packing = packing
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Resolved returns a copy of p with Lanes filled in.
func (p Params) Resolved() Params {
	if p.Lanes == 0 {
		p.Lanes = min(hwy.MaxLanes[float32](), p.MicroTile)
	}
	return p
}

// Validate checks that p describes a kernel that can be built.
func (p Params) Validate() error {
	r := p.Resolved()
	if r.MacroBlock < 1 {
		return errors.Errorf("sgemm: MacroBlock=%d, must be >= 1", r.MacroBlock)
	}
	if !validWidth(r.MicroTile) {
		return errors.Errorf("sgemm: MicroTile=%d, must be 4, 8 or 16", r.MicroTile)
	}
	if !validWidth(r.Lanes) {
		return errors.Errorf("sgemm: Lanes=%d, must be 4, 8 or 16", r.Lanes)
	}
	if r.MicroTile%r.Lanes != 0 {
		return errors.Errorf("sgemm: Lanes=%d does not divide MicroTile=%d", r.Lanes, r.MicroTile)
	}
	if r.Packing != PackAOnce && r.Packing != PackPerMicroTile {
		return errors.Errorf("sgemm: invalid packing strategy %s", r.Packing)
	}
	return nil
}

func validWidth(w int) bool {
	return w == 4 || w == 8 || w == 16
}

// String renders p as "mb=128/mt=8/lanes=4/pack=once".
func (p Params) String() string {
	return fmt.Sprintf("mb=%d/mt=%d/lanes=%d/pack=%s", p.MacroBlock, p.MicroTile, p.Lanes, p.Packing)
}

// PackedASize returns the scratch size for the packed A of a macro tile
// with the given number of rows and depth: ceil(rows/Bs) panels of Bs×depth.
func (p Params) PackedASize(rows, depth int) int {
	if p.Packing == PackPerMicroTile {
		return p.MicroTile * depth
	}
	return ceilDiv(rows, p.MicroTile) * p.MicroTile * depth
}

// PackedBSize returns the scratch size for the packed B of a macro tile
// with the given depth and number of columns: ceil(cols/Bs) panels of depth×Bs.
func (p Params) PackedBSize(depth, cols int) int {
	return ceilDiv(cols, p.MicroTile) * p.MicroTile * depth
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
