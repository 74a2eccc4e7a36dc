package api

import (
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// RootFolder names the implicit folder holding feeds listed outside any folder.
const RootFolder = "[root]"

// NestedFolderSeparator joins a parent folder name with a child's when flattening.
const NestedFolderSeparator = " - "

// FolderStructure is the server's folder listing flattened into folder name ->
// ordered feed ids. The server encodes it as a JSON array whose elements are either
// feed ids (top level) or single-key objects {"Folder name": [...]} that nest the
// same way. Feed id order within a folder is preserved and duplicates are kept.
type FolderStructure struct {
	names []string
	feeds map[string][]int64
}

// Names returns the folder names in the order the server listed them.
func (f *FolderStructure) Names() []string {
	return f.names
}

// FeedIDs returns the feed ids listed under name.
func (f *FolderStructure) FeedIDs(name string) []int64 {
	return f.feeds[name]
}

// Len returns the number of folders.
func (f *FolderStructure) Len() int {
	return len(f.names)
}

func (f *FolderStructure) ensure(name string) {
	if f.feeds == nil {
		f.feeds = make(map[string][]int64)
	}
	if _, ok := f.feeds[name]; !ok {
		f.feeds[name] = []int64{}
		f.names = append(f.names, name)
	}
}

func (f *FolderStructure) add(name string, feedID int64) {
	f.ensure(name)
	f.feeds[name] = append(f.feeds[name], feedID)
}

func childFolderName(parent, child string) string {
	if parent == RootFolder {
		return child
	}
	return parent + NestedFolderSeparator + child
}

func (f *FolderStructure) UnmarshalJSON(data []byte) error {
	*f = FolderStructure{feeds: make(map[string][]int64)}

	iter := wire.BorrowIterator(data)
	defer wire.ReturnIterator(iter)

	f.readFolder(iter, RootFolder)
	if iter.Error != nil && iter.Error != io.EOF {
		return fmt.Errorf("folder structure: %w", iter.Error)
	}
	return nil
}

func (f *FolderStructure) readFolder(iter *jsoniter.Iterator, folder string) {
	iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
		switch it.WhatIsNext() {
		case jsoniter.NumberValue:
			f.add(folder, it.ReadInt64())
		case jsoniter.StringValue:
			s := it.ReadString()
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				it.ReportError("FolderStructure", fmt.Sprintf("feed id %q is not numeric", s))
				return false
			}
			f.add(folder, id)
		case jsoniter.ObjectValue:
			it.ReadObjectCB(func(it *jsoniter.Iterator, name string) bool {
				child := childFolderName(folder, name)
				f.ensure(child)
				f.readFolder(it, child)
				return it.Error == nil
			})
		case jsoniter.NilValue:
			it.Skip()
		default:
			it.ReportError("FolderStructure", "expected feed id or folder object")
			return false
		}
		return it.Error == nil
	})
}
