// Package magick processes images through the ImageMagick command-line
// tools: identify for dimension extraction, convert for thumbnails and
// optimized web renditions.
package magick
