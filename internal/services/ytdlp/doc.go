// Package ytdlp wraps the yt-dlp command-line downloader for metadata
// probing, media downloads, and caption extraction.
package ytdlp
