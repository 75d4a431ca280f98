/*
Package cash defines a simple implementation of sending coins
between multi-signature wallets.

There is no logic in the coins or wallets other than
basic sanity checks. A wallet is the amount of coins
stored under one address.

This is the value-transfer primitive the rest of the
application builds on. Escrow accounts are plain wallets
owned by a derived address.
*/
package cash
