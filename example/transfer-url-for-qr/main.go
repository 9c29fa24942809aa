package main

import (
	"encoding/base64"
	"fmt"
	"log"

	"github.com/tonbot-team/tonkit/address"
	"github.com/tonbot-team/tonkit/tlb"
	"github.com/tonbot-team/tonkit/ton/transfer"
)

func main() {
	// nft item address, message goes there
	item := address.MustParseAddr("EQBx6tZZWa2Tbv6BvgcvegoOQxkRrVaBVwBOoW85nbP37_Go")

	body, err := transfer.NewBuilder().BuildNftTransferCell(transfer.NftTransferParams{
		Recipient:           "EQC6KV4zs8TJtSZapOrRFmqSkxzpq-oSCoxekQRKElf4nC1I",
		ResponseDestination: "EQC6KV4zs8TJtSZapOrRFmqSkxzpq-oSCoxekQRKElf4nC1I",
		ForwardTONAmount:    "0.01",
		ForwardMessage:      "hop hey la la lay!",
	})
	if err != nil {
		log.Fatalln("build payload err:", err.Error())
	}

	// prints TON url which can be used to send transaction from any wallet,
	// for example you can make QR code from it and scan using TonKeeper,
	// and this transaction will be executed by the wallet
	fmt.Printf("ton://transfer/%s?bin=%s&amount=%s\n", item.String(),
		base64.URLEncoding.EncodeToString(body.ToBOC()), tlb.MustFromTON("0.05").Nano().String())
}
