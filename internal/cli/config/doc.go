// Package config holds the ltrgate-cli configuration file,
// ~/.ltrgate/cli.yaml by default.
//
// The file names the server to talk to, the issuer API key, the output
// format and where the client-local quota store lives. Named profiles let
// one file serve several deployments. Command line flags and LTRGATE_*
// environment variables override the file.
package config
