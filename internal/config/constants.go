package config

const SourceFileExt = ".ml"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".ml", ".minilang"}
