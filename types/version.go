package types

// Version is the canonical project version.
// The CLI, the handoff file format and stage events share this version.
const Version = "0.3.0"

// HandoffVersion is the handoff file format version.
// Decoders reject handoff files with a different major version.
const HandoffVersion = "0.3.0"
