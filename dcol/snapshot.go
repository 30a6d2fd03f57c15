// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Snapshot is the flat structured record of a column's full learned
// state: weight matrices, digit prototypes, and physics parameters.
// Restoring a snapshot reproduces the arrays value-exactly, for
// resuming or forking training.
type Snapshot struct {
	Net      NetworkParams `desc:"dimensions -- must match the restoring column exactly"`
	Phys     PhysicsParams `desc:"physics parameters at save time"`
	WAttr    []float32     `desc:"attractor matrix, row-major N x N"`
	WNext    []float32     `desc:"forward transition matrix, row-major N x N"`
	WPrev    []float32     `desc:"backward transition matrix, row-major N x N"`
	WIn      []float32     `desc:"input matrix, row-major N x InputDim"`
	WOut     []float32     `desc:"readout matrix, row-major ReadoutDim x N"`
	Protos   []float32     `desc:"digit prototypes, row-major NDigits x N"`
	HasProto []bool        `desc:"which prototypes are established"`
}

// Snapshot exports the column's full learned state as a flat record.
func (cl *Column) Snapshot() *Snapshot {
	sn := &Snapshot{Net: cl.Net, Phys: cl.Phys}
	sn.WAttr = append([]float32(nil), cl.Wts.Attr.Values...)
	sn.WNext = append([]float32(nil), cl.Wts.Next.Values...)
	sn.WPrev = append([]float32(nil), cl.Wts.Prev.Values...)
	sn.WIn = append([]float32(nil), cl.Wts.In.Values...)
	sn.WOut = append([]float32(nil), cl.Wts.Out.Values...)
	sn.Protos = append([]float32(nil), cl.Protos.Values...)
	sn.HasProto = append([]bool(nil), cl.HasProto...)
	return sn
}

// SetSnapshot restores learned state from a snapshot.  Dimension
// mismatches are fatal: the snapshot belongs to a different network.
// Arrays are restored value-exactly -- no renormalization is applied.
func (cl *Column) SetSnapshot(sn *Snapshot) error {
	if sn.Net.N != cl.Net.N || sn.Net.InputDim != cl.Net.InputDim || sn.Net.NDigits != cl.Net.NDigits || sn.Net.ReadoutDim != cl.Net.ReadoutDim {
		return fmt.Errorf("dcol.SetSnapshot: network dimensions %+v do not match column %+v", sn.Net, cl.Net)
	}
	for _, chk := range []struct {
		nm   string
		got  int
		want int
	}{
		{"WAttr", len(sn.WAttr), len(cl.Wts.Attr.Values)},
		{"WNext", len(sn.WNext), len(cl.Wts.Next.Values)},
		{"WPrev", len(sn.WPrev), len(cl.Wts.Prev.Values)},
		{"WIn", len(sn.WIn), len(cl.Wts.In.Values)},
		{"WOut", len(sn.WOut), len(cl.Wts.Out.Values)},
		{"Protos", len(sn.Protos), len(cl.Protos.Values)},
		{"HasProto", len(sn.HasProto), len(cl.HasProto)},
	} {
		if chk.got != chk.want {
			return fmt.Errorf("dcol.SetSnapshot: %s length %d != expected %d", chk.nm, chk.got, chk.want)
		}
	}
	cl.Phys = sn.Phys
	copy(cl.Wts.Attr.Values, sn.WAttr)
	copy(cl.Wts.Next.Values, sn.WNext)
	copy(cl.Wts.Prev.Values, sn.WPrev)
	copy(cl.Wts.In.Values, sn.WIn)
	copy(cl.Wts.Out.Values, sn.WOut)
	copy(cl.Protos.Values, sn.Protos)
	copy(cl.HasProto, sn.HasProto)
	return nil
}

// WriteSnapshotJSON writes the snapshot in JSON format to the writer
func (cl *Column) WriteSnapshotJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	return enc.Encode(cl.Snapshot())
}

// ReadSnapshotJSON reads a snapshot in JSON format and restores it
func (cl *Column) ReadSnapshotJSON(r io.Reader) error {
	sn := &Snapshot{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(sn); err != nil {
		return err
	}
	return cl.SetSnapshot(sn)
}

// SaveSnapshotJSON saves the snapshot to a JSON file.  If the filename
// ends in .gz, the file is gzip compressed.
func (cl *Column) SaveSnapshotJSON(filename string) error {
	fp, err := os.Create(filename)
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr := gzip.NewWriter(fp)
		err = cl.WriteSnapshotJSON(gzr)
		gzr.Close()
	} else {
		bw := bufio.NewWriter(fp)
		err = cl.WriteSnapshotJSON(bw)
		bw.Flush()
	}
	return err
}

// OpenSnapshotJSON opens a snapshot from a JSON file.  If the filename
// ends in .gz, the file is assumed to be gzip compressed.
func (cl *Column) OpenSnapshotJSON(filename string) error {
	fp, err := os.Open(filename)
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr, err := gzip.NewReader(fp)
		if err != nil {
			log.Println(err)
			return err
		}
		defer gzr.Close()
		return cl.ReadSnapshotJSON(gzr)
	}
	return cl.ReadSnapshotJSON(bufio.NewReader(fp))
}
