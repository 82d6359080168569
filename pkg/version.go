package recipebox

// Version is the application version reported by the CLI and the MCP server.
const Version = "0.3.0"
