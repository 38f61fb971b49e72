package tools

const (
	readFileToolName = "read_file"
	readFileToolDesc = "Read a source file from the repository. Use this to inspect related classes when the provided context is not enough to document an element accurately."

	listDirectoryToolName = "list_directory"
	listDirectoryToolDesc = "List the entries of a repository directory. Use this to discover related source files before reading them."
)
