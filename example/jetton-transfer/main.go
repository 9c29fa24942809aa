package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/tonbot-team/tonkit/address"
	"github.com/tonbot-team/tonkit/tlb"
	"github.com/tonbot-team/tonkit/ton/transfer"
)

// message is what a wallet connector expects to sign and send
type message struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Payload string `json:"payload"`
}

func main() {
	transfer.Logger = log.Println

	// our jetton wallet, message is sent to it
	jettonWallet := address.MustParseAddr("EQD0vdSA_NedR9uvbgN9EikRX-suesDxGeFg69XQMavfLqIw")

	// token with 9 decimals, 0.1 token to send
	amountTokens := tlb.MustFromDecimal("0.1", 9)

	payload, err := transfer.BuildJettonTransfer(transfer.JettonTransferParams{
		// address of receiver's wallet (not token wallet, just usual)
		Recipient:           "0:83dfd552e63729b472fdcc738fbcf64efe51ba9282f2b80e5ddbcba44fbe4c50",
		Amount:              amountTokens.Nano(),
		ResponseDestination: "EQC6KV4zs8TJtSZapOrRFmqSkxzpq-oSCoxekQRKElf4nC1I",
		ForwardTONAmount:    "0.01",
		ForwardMessage:      "Hello from tonkit!",
	})
	if err != nil {
		log.Fatalln("build payload err:", err.Error())
	}

	// your TON balance must be > 0.05 to send
	msg := message{
		Address: jettonWallet.String(),
		Amount:  tlb.MustFromTON("0.05").Nano().String(),
		Payload: payload,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err = enc.Encode(msg); err != nil {
		log.Fatal(err)
	}
}
