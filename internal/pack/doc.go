// Package pack defines the content-pack data model and its loading layer.
//
// A content pack is a versioned, jurisdiction-scoped bundle of questions,
// rules, actions, and services. The JSON document format is the one wire
// contract of the engine and round-trips unchanged through load and
// re-serialization. Packs are immutable once registered in a Repository;
// replacing one means removing it and loading again.
package pack
