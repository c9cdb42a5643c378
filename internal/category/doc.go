// Package category defines test categories and the registry that owns
// them for the duration of one build invocation. The registry rejects
// duplicate names and circular runs-after relations at registration
// time; no other component ever mutates it.
package category
