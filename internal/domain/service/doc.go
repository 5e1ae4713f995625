// Package service routes collaborator calls made by window content.
//
// Tool ids have the form "service.tool" (for example "storage.list" or
// "assistant.request"); the part before the dot selects a Provider.
// Providers report their own failures as unsuccessful Results so a
// broken collaborator never disturbs the desktop.
package service
