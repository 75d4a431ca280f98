/*

Package escrow implements a custodial escrow state machine.

> An escrow is a financial arrangement where a third party holds and regulates
> payment of the funds required for two parties involved in a given transaction.
> It helps make transactions more secure by keeping the payment in a secure
> escrow account which is only released when all of the terms of an agreement are
> met as overseen by the escrow company.

The buyer creates the escrow and funds it in the same step. The seller
accepts to activate it. From there the buyer can release the funds to
the seller, reclaim them after the timeout has elapsed, or either
trading party can raise a dispute and let the arbiter decide.

Each escrow custodies its deposit in its own cash account, derived from
the escrow id. Terminal records are never deleted, they remain as an
audit trail.

*/
package escrow
