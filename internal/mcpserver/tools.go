package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions exposed to MCP clients. Descriptions are what the model
// reads to decide which tool to call.

var toolGetNativeBalance = mcp.NewTool("get_native_balance",
	mcp.WithDescription(
		"Get the native CRO balance of a wallet address on the active Cronos network. "+
			"Returns the balance in CRO and the block height it was read at."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("Wallet address (0x-prefixed hex)")),
)

var toolGetERC20Balance = mcp.NewTool("get_erc20_balance",
	mcp.WithDescription(
		"Get a wallet's balance of an ERC-20 token, adjusted by the token's decimals."),
	mcp.WithString("token",
		mcp.Required(),
		mcp.Description("Token contract address")),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("Holder wallet address")),
)

var toolGetBlock = mcp.NewTool("get_block",
	mcp.WithDescription(
		"Get a block summary (hash, timestamp, transaction count, gas) by block number. "+
			"Omit the number or pass 'latest' for the most recent block."),
	mcp.WithString("number",
		mcp.Description("Block number, or 'latest'")),
)

var toolGetTransaction = mcp.NewTool("get_transaction",
	mcp.WithDescription("Get a transaction's details (value, gas, nonce, recipient) by hash."),
	mcp.WithString("hash",
		mcp.Required(),
		mcp.Description("Transaction hash (0x-prefixed)")),
)

var toolGetTransactionStatus = mcp.NewTool("get_transaction_status",
	mcp.WithDescription(
		"Check whether a transaction succeeded, failed, is still pending, or is unknown."),
	mcp.WithString("hash",
		mcp.Required(),
		mcp.Description("Transaction hash (0x-prefixed)")),
)

var toolGetTransactionsByAddress = mcp.NewTool("get_transactions_by_address",
	mcp.WithDescription("List the most recent transactions of a wallet address."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("Wallet address")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of transactions to return (default 20)")),
)

var toolGetFarms = mcp.NewTool("get_farms",
	mcp.WithDescription(
		"List active DeFi yield farms with APR, TVL, and reward token information."),
)

var toolGetFarmBySymbol = mcp.NewTool("get_farm_by_symbol",
	mcp.WithDescription("Find a DeFi farm by its pair name or either leg's token symbol."),
	mcp.WithString("symbol",
		mcp.Required(),
		mcp.Description("Pair name (e.g. 'CRO-USDC') or token symbol (e.g. 'VVS')")),
)

var toolResolveDomain = mcp.NewTool("resolve_domain",
	mcp.WithDescription("Resolve a .cro domain name to its wallet address."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Domain name (e.g. 'alice.cro')")),
)

var toolLookupAddress = mcp.NewTool("lookup_address",
	mcp.WithDescription("Reverse-resolve a wallet address to its registered .cro domain name."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("Wallet address")),
)

var toolGetDexSummary = mcp.NewTool("get_dex_summary",
	mcp.WithDescription(
		"Get a cleaned summary of DEX trading pairs sorted by liquidity, with a data-quality "+
			"report describing how much of the upstream feed was usable."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of pairs to return (default 10)")),
)

var toolGetDexPairs = mcp.NewTool("get_dex_pairs",
	mcp.WithDescription(
		"Get the top DEX trading pairs by USD liquidity. Values are sanitized, bounded, and "+
			"unit-corrected; every batch carries a data-quality report."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of pairs to return (default 10)")),
)

var toolGetDexTokens = mcp.NewTool("get_dex_tokens",
	mcp.WithDescription(
		"List DEX-traded tokens with validated USD and CRO prices. Tokens whose prices fail "+
			"plausibility checks are excluded and counted in the data-quality report."),
)

var toolGetDexTokenPrice = mcp.NewTool("get_dex_token_price",
	mcp.WithDescription(
		"Get a token's USD price from the DEX aggregator, falling back to a cross-pair "+
			"lookup against WCRO and USDC pairs when the direct quote is unusable."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("Token contract address")),
)

var toolGetDexSupply = mcp.NewTool("get_dex_supply",
	mcp.WithDescription("Get the DEX token's total, circulating, and burned supply."),
)

var toolGetExchangeTickers = mcp.NewTool("get_exchange_tickers",
	mcp.WithDescription("List 24h tickers (last, bid/ask, high/low, volume) for all exchange instruments."),
)

var toolGetTicker = mcp.NewTool("get_ticker",
	mcp.WithDescription("Get the 24h ticker for one exchange instrument."),
	mcp.WithString("instrument",
		mcp.Required(),
		mcp.Description("Instrument name (e.g. 'CRO_USDT')")),
)
