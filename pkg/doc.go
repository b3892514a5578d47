// Package pkg provides the core libraries for Photostrip photo-booth strips.
//
// # Overview
//
// A strip is a fixed-width canvas holding photo slots, text and sticker
// overlays, and a background that is a color, an image, or a template image
// whose aspect ratio drives the slot layout. The pkg directory is organized
// into four areas:
//
//  1. Model - [strip] types, [geometry] math, the [layout] store and its
//     [history]
//  2. Interaction - the [interact] pointer and keyboard state machine and
//     the [editor] context that ties model, history and export together
//  3. Output - [render] to raster, encoding and caching through [pipeline],
//     and archiving in a [gallery]
//  4. Infrastructure - [cache], [template] stores, [imagesrc] resolvers,
//     [fonts], [errors], [observability] and [buildinfo]
//
// # Architecture
//
// The typical data flow through Photostrip:
//
//	Template record + photos
//	         ↓
//	    [editor] (layout store, selection, undo/redo)
//	         ↓
//	    [render] (scene → image, at the export resolution)
//	         ↓
//	    [pipeline] (encode, cache by scene hash)
//	         ↓
//	    PNG/JPEG/PDF, optionally archived to a [gallery]
//
// # Quick Start
//
// Apply a template, add photos and export:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/photostrip/pkg/editor"
//	    "github.com/matzehuels/photostrip/pkg/imagesrc"
//	    "github.com/matzehuels/photostrip/pkg/pipeline"
//	)
//
//	ed := editor.New(editor.WithResolver(imagesrc.NewMux(".", nil, nil)))
//	_ = ed.ApplyRecord(rec)
//	ed.AddPhotos("a.jpg", "b.jpg", "c.jpg")
//	res, _ := ed.Export(context.Background(), pipeline.Options{Formats: []string{"png", "pdf"}})
//	// res.Artifacts["png"], res.Artifacts["pdf"]
//
// # Storage
//
// [template] defines the store interface with file, memory, SQLite, Redis
// and MongoDB backends in subpackages. [cache] keeps rendered artifacts and
// fetched images on disk, in memory or in Redis.
//
// # Concurrency
//
// [editor.Editor] serializes all state changes behind one mutex and may be
// shared between goroutines; exports read a consistent snapshot. Stores and
// caches are safe for concurrent use.
package pkg
