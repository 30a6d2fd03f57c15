// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goki/ki/kit"
)

// WindowKinds enumerate the named transition windows over the free-run
// horizon [0, TTrans).  The NoImpulse variants are the same ranges with
// the first k steps excluded, discounting the drive-switch impulse.
type WindowKinds int

//go:generate stringer -type=WindowKinds

var KiT_WindowKinds = kit.Enums.AddEnum(WindowKindsN, kit.NotBitFlag, nil)

func (ev WindowKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *WindowKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Early is steps [0, 6)
	Early WindowKinds = iota

	// Mid is a 6-step band centered on the horizon midpoint
	Mid

	// Late is the last 6 steps
	Late

	// Tail is the last TailLen steps
	Tail

	// Mean is the whole horizon
	Mean

	// ImpulseOnly is step 0 only
	ImpulseOnly

	// MeanNoImpulse is Mean with the first k steps excluded
	MeanNoImpulse

	// TailNoImpulse is Tail with the first k steps excluded
	TailNoImpulse

	// LateNoImpulse is Late with the first k steps excluded
	LateNoImpulse

	WindowKindsN
)

// FixedBand is the length of the early / mid / late bands
const FixedBand = 6

var windowNames = map[string]WindowKinds{
	"early":         Early,
	"mid":           Mid,
	"late":          Late,
	"tail":          Tail,
	"mean":          Mean,
	"impulseOnly":   ImpulseOnly,
	"meanNoImpulse": MeanNoImpulse,
	"tailNoImpulse": TailNoImpulse,
	"lateNoImpulse": LateNoImpulse,
}

var windowBaseNames = map[WindowKinds]string{
	Early:         "early",
	Mid:           "mid",
	Late:          "late",
	Tail:          "tail",
	Mean:          "mean",
	ImpulseOnly:   "impulseOnly",
	MeanNoImpulse: "meanNoImpulse",
	TailNoImpulse: "tailNoImpulse",
	LateNoImpulse: "lateNoImpulse",
}

// IsNoImpulse returns true for the variants that exclude initial steps
func (wk WindowKinds) IsNoImpulse() bool {
	return wk == MeanNoImpulse || wk == TailNoImpulse || wk == LateNoImpulse
}

// WindowSpec is the parsed form of a window name: a kind plus an
// optional embedded exclude count from the name(k=K) form.  K = 0 means
// no embedded override -- the ambient exclude value applies alone.
type WindowSpec struct {
	Kind WindowKinds `desc:"which named window"`
	K    int         `desc:"embedded exclude-first-k override from name(k=K), 0 if absent"`
}

// Name returns the canonical string form, including (k=K) if embedded
func (ws WindowSpec) Name() string {
	nm := windowBaseNames[ws.Kind]
	if ws.K > 0 {
		return fmt.Sprintf("%s(k=%d)", nm, ws.K)
	}
	return nm
}

// BaseName returns the bare name without any (k=K) suffix
func (ws WindowSpec) BaseName() string {
	return windowBaseNames[ws.Kind]
}

// ParseWindow parses a window name, accepting the bare vocabulary and
// the name(k=K) form.  Unknown names are errors.
func ParseWindow(name string) (WindowSpec, error) {
	ws := WindowSpec{}
	nm := name
	if i := strings.Index(name, "("); i >= 0 {
		if !strings.HasSuffix(name, ")") || !strings.HasPrefix(name[i:], "(k=") {
			return ws, fmt.Errorf("dcol.ParseWindow: malformed window name: %q", name)
		}
		ks := name[i+3 : len(name)-1]
		k, err := strconv.Atoi(ks)
		if err != nil || k < 0 {
			return ws, fmt.Errorf("dcol.ParseWindow: bad k in window name %q", name)
		}
		ws.K = k
		nm = name[:i]
	}
	kind, ok := windowNames[nm]
	if !ok {
		return ws, fmt.Errorf("dcol.ParseWindow: unknown window name: %q", name)
	}
	ws.Kind = kind
	return ws, nil
}

// WindowRange is a resolved window: a concrete [Start, End) step range
// over the free-run horizon.
type WindowRange struct {
	Spec  WindowSpec `desc:"the spec this range resolved from"`
	Start int        `desc:"first step, inclusive"`
	End   int        `desc:"last step, exclusive"`
}

func (wr WindowRange) Len() int { return wr.End - wr.Start }

// Contains returns whether step t falls inside the range
func (wr WindowRange) Contains(t int) bool { return t >= wr.Start && t < wr.End }

// ResolveWindows turns specs into concrete ranges over [0, tTrans).
// The effective exclude for a NoImpulse window is max(excludeFirstK,
// spec.K).  A collapsed range (end <= start) is recorded in the
// returned diagnostics with its reason and widened to length 1 anchored
// at start; if still degenerate it is dropped.  Callers must treat an
// empty result for a non-empty request as fatal.
func ResolveWindows(specs []WindowSpec, tTrans, tailLen, excludeFirstK int) ([]WindowRange, []string) {
	var out []WindowRange
	var diags []string
	for _, ws := range specs {
		k := excludeFirstK
		if ws.K > k {
			k = ws.K
		}
		start, end := 0, tTrans
		switch ws.Kind {
		case Early:
			end = min(FixedBand, tTrans)
		case Mid:
			start = max(0, tTrans/2-FixedBand/2)
			end = min(tTrans, start+FixedBand)
		case Late:
			start = max(0, tTrans-FixedBand)
		case Tail:
			start = tTrans - tailLen
		case Mean:
			// full horizon
		case ImpulseOnly:
			end = min(1, tTrans)
		case MeanNoImpulse:
			start = k
		case TailNoImpulse:
			start = max(tTrans-tailLen, k)
		case LateNoImpulse:
			start = max(tTrans-FixedBand, k)
			if start < 0 {
				start = 0
			}
		}
		if end <= start {
			reason := "tTrans<=0"
			switch {
			case tTrans > 0 && (ws.Kind == Tail || ws.Kind == TailNoImpulse) && tailLen <= 0:
				reason = "tailLen<=0"
			case tTrans > 0 && ws.Kind.IsNoImpulse() && k >= tTrans:
				reason = "excludeFirstK>=tTrans"
			}
			diags = append(diags, fmt.Sprintf("window %s collapsed (%s): [%d,%d) widened to length 1", ws.Name(), reason, start, end))
			if start < 0 {
				start = 0
			}
			if start >= tTrans { // cannot anchor inside the horizon
				start = tTrans - 1
			}
			end = start + 1
			if start < 0 || end > tTrans {
				diags = append(diags, fmt.Sprintf("window %s dropped: no valid step in [0,%d)", ws.Name(), tTrans))
				continue
			}
		}
		if start < 0 {
			start = 0
		}
		out = append(out, WindowRange{Spec: ws, Start: start, End: end})
	}
	return out, diags
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
