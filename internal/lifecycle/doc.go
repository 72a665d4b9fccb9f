// Package lifecycle holds the state machines of the sales transaction and payment aggregates.
//
// Transactions move from MASIHDIPROSES to exactly one of SELESAI or DIBATALKAN and are immutable afterwards.
// Payments accumulate installments while CICILAN and become LUNAS once the recorded installments reach the
// amount owed. Overpayment is accepted.
//
// The machines only mutate the aggregate they are given. Persistence and notification are the caller's job.
package lifecycle
