package ai

// swapsSchemaDescription describes the ClickHouse schema used for NL→SQL
// prompting. Kept in sync with archive.ClickHouseStore.EnsureTable.
const swapsSchemaDescription = `
Database: uniswap
Table: swaps

Columns:
  - chain            String    -- Chain name, e.g. "Ethereum"
  - dex              String    -- "UniswapV2" or "UniswapV3"
  - transaction_hash String    -- Ethereum transaction hash (0x-prefixed)
  - block_number     UInt64    -- Block the swap was mined in (0 if unknown)
  - pool_address     String    -- Pair/pool contract address
  - token_in         String    -- Symbol of the token sold by the trader
  - token_out        String    -- Symbol of the token bought by the trader
  - amount_in        String    -- Decimal amount of token_in, as a string
  - amount_out       String    -- Decimal amount of token_out, as a string
  - amount_usd       String    -- USD value of the swap, as a string (may be empty)
  - sender           String    -- Address that initiated the swap
  - timestamp        String    -- Swap time, RFC 3339 UTC
  - received_at      DateTime  -- When the relay archived the row (UTC)

Notes:
  - Amounts are strings; use toFloat64OrZero(amount_usd) etc. before aggregating.
  - For time filters prefer received_at, e.g. received_at >= now() - INTERVAL 24 HOUR.
  - transaction_hash is not unique: one transaction can contain several swaps.
`
