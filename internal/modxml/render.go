// Package modxml renders a matched descriptor tree as the game's mod.xml.
//
// Events and condition lists without matched files are left out entirely.
// A list with files but no states still gets an empty <StateList/> marker.
package modxml

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"soundmod/internal/descriptor"
	"soundmod/internal/services"
)

const (
	// Header is the declaration line preceding the document root.
	Header = `<?xml version="1.0" encoding="utf-8"?>`
	// FileName is the document name the game loads from a mod directory.
	FileName = "mod.xml"
	// DefaultContainerName is the label written into every Container.
	DefaultContainerName = "Voice"

	tagRoot          = "AudioModification.xml"
	tagModification  = "AudioModification"
	tagExternalEvent = "ExternalEvent"
	tagContainer     = "Container"
	tagExternalID    = "ExternalId"
	tagName          = "Name"
	tagPath          = "Path"
	tagStateList     = "StateList"
	tagState         = "State"
	tagValue         = "Value"
	tagFilesList     = "FilesList"
	tagFile          = "File"
)

// Option configures rendering.
type Option func(*options)

type options struct {
	containerName string
}

// WithContainerName overrides the Container label.
func WithContainerName(name string) Option {
	return func(o *options) {
		if strings.TrimSpace(name) != "" {
			o.containerName = name
		}
	}
}

// Render writes the document for modName and tree to w.
func Render(w io.Writer, modName string, tree *descriptor.Tree, opts ...Option) error {
	o := options{containerName: DefaultContainerName}
	for _, opt := range opts {
		opt(&o)
	}

	tw := newTagWriter(w)
	tw.raw(Header)
	tw.open(tagRoot)
	tw.open(tagModification)
	tw.field(tagName, modName)
	if tree != nil {
		for _, event := range tree.Events {
			writeEvent(tw, event, o)
		}
	}
	tw.close(tagModification)
	tw.close(tagRoot)
	return tw.flush()
}

// RenderString returns the rendered document.
func RenderString(modName string, tree *descriptor.Tree, opts ...Option) (string, error) {
	var b strings.Builder
	if err := Render(&b, modName, tree, opts...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteFile renders the document into dir/mod.xml through a temporary file so
// a failed write never leaves a truncated document behind.
func WriteFile(dir, modName string, tree *descriptor.Tree, opts ...Option) (string, error) {
	target := filepath.Join(dir, FileName)
	tmp, err := os.CreateTemp(dir, ".mod-*.xml")
	if err != nil {
		return "", services.Wrap(services.ErrIO, "render", "create", fmt.Sprintf("cannot write %s", target), err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := Render(tmp, modName, tree, opts...); err != nil {
		_ = tmp.Close()
		return "", services.Wrap(services.ErrIO, "render", "write", target, err)
	}
	if err := tmp.Close(); err != nil {
		return "", services.Wrap(services.ErrIO, "render", "close", target, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", services.Wrap(services.ErrIO, "render", "chmod", target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", services.Wrap(services.ErrIO, "render", "rename", target, err)
	}
	return target, nil
}

func writeEvent(tw *tagWriter, event *descriptor.Event, o options) {
	if event.Empty() {
		return
	}
	tw.open(tagExternalEvent)
	tw.field(tagName, event.Name)
	tw.open(tagContainer)
	tw.field(tagExternalID, event.ExternalID)
	tw.field(tagName, o.containerName)
	for _, list := range event.Lists {
		writeList(tw, list)
	}
	tw.close(tagContainer)
	tw.close(tagExternalEvent)
}

func writeList(tw *tagWriter, list *descriptor.ConditionList) {
	if !list.HasFiles() {
		return
	}
	tw.open(tagPath)
	if len(list.States) == 0 {
		tw.empty(tagStateList)
	} else {
		tw.open(tagStateList)
		for _, state := range list.States {
			tw.open(tagState)
			tw.field(tagName, state.Name)
			tw.field(tagValue, state.Value)
			tw.close(tagState)
		}
		tw.close(tagStateList)
	}
	tw.open(tagFilesList)
	for _, file := range list.Files {
		tw.open(tagFile)
		tw.field(tagName, file)
		tw.close(tagFile)
	}
	tw.close(tagFilesList)
	tw.close(tagPath)
}
