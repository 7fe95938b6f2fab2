// Package scraper contains the camera processing pipeline: fetch the
// mosaic page, walk its iframes, and download each camera's snapshot.
//
// Per-frame failures are contained at the frame boundary; the pipeline as
// a whole only fails if the mosaic page itself cannot be fetched or the
// input HTML is empty.
package scraper
