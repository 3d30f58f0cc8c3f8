package protocol

import _ "embed"

// LoginPlayBody and RegistryCodec are opaque, pre-built payloads.
// LoginPlayBody is sent verbatim as part of the Play-state handshake;
// RegistryCodec is embedded but not sent by the server. A real deployment
// would generate these from the game's actual dimension/biome registries;
// here they stand in as fixed-shape blobs so the connection runtime can
// exercise the same embed-and-copy path without depending on external
// registry data.
//
//go:embed blobs/login_play.bin
var LoginPlayBody []byte

//go:embed blobs/registry_codec.bin
var RegistryCodec []byte
