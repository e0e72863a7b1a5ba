// Package plotdoc implements a document-based plotting engine.
//
// A plot is a tree of widgets (pages, grids, graphs, axes and plot
// elements) whose appearance is controlled by typed properties, fed
// from a registry of named datasets. Rendering is a pure function of
// a document snapshot: the pipeline scales the axes, lays out the
// tree and emits a backend-agnostic primitive stream which the
// export package replays onto PNG, SVG, PDF or EPS canvases.
//
// The Document type serializes edits and hands out consistent
// snapshots; the Scheduler renders snapshots asynchronously, always
// working on the newest document version and abandoning renders that
// edits have superseded.
//
// The subpackages can be used on their own: dataset holds the data
// registry, widget the tree, scale the axis scaler, layout the
// geometry pass, render the pipeline and export the backends.
package plotdoc
