// Package output renders jhier query results for people and agents.
//
// # Output Types
//
// Every command result is one of the schema types:
//
//   - ClassOutput: superclass of one class (jhier super)
//   - ListOutput: ancestry or direct subclasses (jhier ancestry, jhier subclasses)
//   - MethodOutput: implementation and declaration queries (jhier implements, jhier resolve)
//   - ClassTreeOutput / MethodTreeOutput: inheritance and override trees (jhier tree)
//   - CheckOutput: whole-index graph check (jhier check)
//   - ScanOutput: summary of a scan or of the saved snapshot (jhier scan, jhier status)
//
// # Format Types
//
//   - YAML (default): self-documenting keys, same structure as JSON
//   - JSON: machine-readable
//   - Text: indented trees and one value per line, for terminals
//
// Names are always reported twice: the internal JVM name (p/Outer$Inner)
// that identifies the class, and a label produced by the configured name
// translator. Without a mapping file the two are identical.
package output
