// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package archive

import (
	"encoding/binary"

	"github.com/nftinder/marketd/fault"
	"github.com/nftinder/marketd/storage"
)

// Package - one entry of the storage package catalog
type Package struct {
	Index uint64 `json:"index,string"`
	Size  uint64 `json:"size,string"`
	Price uint64 `json:"price,string"`
}

const packedPackageSize = 16

// SetPackage - create or replace a catalog entry, operator only
func SetPackage(index uint64, size uint64, price uint64) error {
	if 0 == size {
		return fault.InvalidPackage
	}

	packed := make([]byte, packedPackageSize)
	binary.BigEndian.PutUint64(packed[:8], size)
	binary.BigEndian.PutUint64(packed[8:], price)
	storage.Pool.Packages.Put(indexKey(index), packed)
	return nil
}

// DeletePackage - remove a catalog entry
func DeletePackage(index uint64) error {
	key := indexKey(index)
	if !storage.Pool.Packages.Has(key) {
		return fault.PackageNotFound
	}
	storage.Pool.Packages.Delete(key)
	return nil
}

// PackageByIndex - fetch one catalog entry
func PackageByIndex(index uint64) (Package, error) {
	packed := storage.Pool.Packages.Get(indexKey(index))
	if nil == packed {
		return Package{}, fault.PackageNotFound
	}
	return unpackPackage(index, packed)
}

// Packages - the whole catalog in index order
func Packages() ([]Package, error) {
	elements, err := storage.Pool.Packages.Fetch(nil, maximumCollectionScan)
	if nil != err {
		return nil, err
	}

	catalog := make([]Package, 0, len(elements))
	for _, e := range elements {
		if 8 != len(e.Key) {
			continue
		}
		pkg, err := unpackPackage(binary.BigEndian.Uint64(e.Key), e.Value)
		if nil != err {
			return nil, err
		}
		catalog = append(catalog, pkg)
	}
	return catalog, nil
}

func unpackPackage(index uint64, packed []byte) (Package, error) {
	if packedPackageSize != len(packed) {
		return Package{}, fault.InvalidPackage
	}
	return Package{
		Index: index,
		Size:  binary.BigEndian.Uint64(packed[:8]),
		Price: binary.BigEndian.Uint64(packed[8:]),
	}, nil
}

func indexKey(index uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, index)
	return key
}
