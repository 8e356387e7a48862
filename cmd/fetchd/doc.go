// Command fetchd is the media-fetching service and its CLI: a daemon
// serving the processing API, plus one-shot processing, history, and
// configuration commands.
package main
