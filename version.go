package hosttriple

// Version is the module version reported by the CLI and MCP server.
const Version = "v0.1.0"
