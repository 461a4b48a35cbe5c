// Package assets builds card image URLs, either against the template image
// API or as presigned URLs into an S3-compatible bucket.
package assets
