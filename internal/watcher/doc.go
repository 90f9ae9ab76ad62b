// Package watcher reports changes to fixture files, debounced per file.
package watcher
