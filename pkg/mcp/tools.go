package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/cafetheme/pkg/catalog"
)

func getConfigTool() mcp.Tool {
	return mcp.NewTool("get_config",
		mcp.WithDescription("Returns the active theme configuration, serialized as json (default), yaml, toml or js."),
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.Enum("json", "yaml", "toml", "js"),
		),
	)
}

func listCategoriesTool() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription("Returns the token categories (color, fontFamily, maxWidth) with token counts."),
	)
}

func listTokensTool() mcp.Tool {
	return mcp.NewTool("list_tokens",
		mcp.WithDescription("Lists theme tokens with their values and utility classes. Filter by category and/or keyword."),
		mcp.WithString("category",
			mcp.Description("Token category"),
			mcp.Enum(catalog.CategoryColor, catalog.CategoryFontFamily, catalog.CategoryMaxWidth),
		),
		mcp.WithString("keyword",
			mcp.Description("Case-insensitive match on token name, value or font fallbacks"),
		),
	)
}

func getTokenTool() mcp.Tool {
	return mcp.NewTool("get_token",
		mcp.WithDescription("Returns one token by name. Use <category>.<name> when a name exists in several categories."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Token name, e.g. cafe-brown or fontFamily.yugothic"),
		),
	)
}

func resolveClassTool() mcp.Tool {
	return mcp.NewTool("resolve_class",
		mcp.WithDescription("Explains which theme token a class name uses. Variants, ! and /opacity modifiers are understood."),
		mcp.WithString("class",
			mcp.Required(),
			mcp.Description("Class as written in a template, e.g. hover:text-cafe-cyan-dark"),
		),
	)
}

func validateConfigTool() mcp.Tool {
	return mcp.NewTool("validate_config",
		mcp.WithDescription("Lints the active theme configuration and returns every issue found."),
	)
}

func usageReportTool() mcp.Tool {
	return mcp.NewTool("usage_report",
		mcp.WithDescription("Reports which tokens the project templates use, which are unused, and unknown brand-like classes."),
	)
}
