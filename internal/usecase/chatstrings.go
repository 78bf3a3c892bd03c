package usecase

import (
	"fmt"
	"strings"
	"time"

	"dropbot/internal/domain/entities"
	"dropbot/pkg/mob"
)

// Customer-facing message catalog. Everything the bot says lives here so the
// wording can be reviewed in one place.

const (
	msgCountryRestricted = "Hi! MOBot here.\n\nSorry, we are not yet available in your country."
	msgSessionCancelled  = "Session cancelled, message us again when you're ready!"
	msgYesNoHelp         = "You can type (y)es or (n)o\n\nMore commands:\n?? - show the privacy policy\n? - list available commands"
	msgBye               = "Thanks! MOBot OUT. Buh-bye!"
	msgNotificationsAsk  = "Would you like to receive notifications for future drops?"

	msgOverQuota  = "Too many others have been registered for this drop. Please try again another time!"
	msgNoCoinLeft = "No coin left! Better luck next time!"

	msgAirdropDescription = "Hi! MOBot here.\n\nWe're giving away free MOB during this drop."
	msgAirdropReady       = "Ready? (y)es/(n)o"
	msgAirdropCommands    = "Commands available are:\n?  - show this message\npay - how to send a payment\ndescribe - drop instructions"
	msgAirdropCompleted   = "You've completed the MOB drop! Stay tuned for future drops."
	msgAirdropSummary     = "You've already completed this airdrop. Stay tuned for future drops!"
	msgPayHelp            = "To see your balance and send a payment:\n\n1. Select the attachment (+) icon and select Pay\n2. Enter the amount you want to send (e.g. 0.01 MOB)\n3. Tap Pay\n4. Tap Confirm Payment"

	msgNotEnough            = "Not enough MOB, and the amount sent does not cover the transaction fee. No refund is possible."
	msgUnsolicitedPayment   = "MOBot here! You sent us an unsolicited payment. We're returning it to you."
	msgPaymentsDeactivated  = "We have a refund for you, but your payments have been deactivated.\n\nPlease contact us at %s to receive your refund."
	msgPaymentNotConfirmed  = "We couldn't confirm your payment. Please contact us if you believe you've been charged."
	msgReceiptFailure       = "couldn't generate a receipt, please contact us if you didn't get a payment!"
	msgMissingOrder         = "We can't seem to find your order. Please contact us for help!"
	msgOutOfStock           = "Uh oh! Looks like we're all out of stock. Please try again later!"
	msgOutOfStockRefund     = "Uh oh! Looks like we're all sold out. We're refunding your payment."
	msgItemSoldOut          = "Sorry, that option is sold out!"
	msgItemAlreadyOrdered   = "Looks like you've already ordered during this drop. Contact us if you need help with your order!"
	msgItemWhatSizeOrCancel = "What size would you like? You can type (c)ancel at any time to cancel your order."
	msgItemOptionCancel     = "Order cancelled. We're refunding your payment."
	msgNameRequest          = "What name should we use for shipping?"
	msgNameHelp             = "Please reply with the name we should print on the shipping label."
	msgAddressRequest       = "What address should we ship to?"
	msgAddressNotFound      = "We couldn't find that address. Could you try again with more detail?"

	msgStoreClosedShort = "We're currently closed. Please come back later!"

	msgNotificationsOff     = "You are not currently receiving notifications."
	msgDisableNotifications = "You will no longer receive notifications about future drops."
	msgAlreadySubscribed    = "You are already subscribed to account notifications!"
	msgSubscribeNotify      = "We will let you know about future drops!"

	msgSessionExpired         = "Your session timed out, so we've cancelled it. Message us again when you're ready!"
	msgSessionExpiredRefunded = "Your session timed out, so we've cancelled your order and refunded your payment."
)

func msgPaymentsEnabledHelp(itemDesc string) string {
	return fmt.Sprintf(
		"Hi! MOBot here.\n\nWe're giving away %s.\n\nTo participate you'll need to enable payments in Signal:\n\nSettings > Payments > Activate Payments",
		itemDesc,
	)
}

func msgAirdropInitialize(drop entities.Drop) string {
	amount := drop.InitialCoinAmountPmob
	return fmt.Sprintf(
		"Here's %s MOB (~%s) to get you started!",
		mob.FormatMob(amount),
		mob.FormatCurrency(drop.CurrencySymbol, mob.ValueInCurrency(amount, drop.ConversionRateMobToCurrency)),
	)
}

func msgAirdropInstructions(drop entities.Drop) string {
	amount := drop.InitialCoinAmountPmob
	return fmt.Sprintf(
		"We'll send you %s MOB (~%s). Send it back and we'll send it back again with a random bonus!",
		mob.FormatMob(amount),
		mob.FormatCurrency(drop.CurrencySymbol, mob.ValueInCurrency(amount, drop.ConversionRateMobToCurrency)),
	)
}

func msgAirdropResponse(drop entities.Drop) string {
	amount := drop.InitialCoinAmountPmob
	return fmt.Sprintf(
		"Send the %s MOB (~%s) back to us to receive your bonus!",
		mob.FormatMob(amount),
		mob.FormatCurrency(drop.CurrencySymbol, mob.ValueInCurrency(amount, drop.ConversionRateMobToCurrency)),
	)
}

func msgBonusSoldOutRefund(amountPmob int64) string {
	return fmt.Sprintf("All the bonus prizes have been claimed. We're returning your %s MOB.", mob.FormatMob(amountPmob))
}

func msgRefundSent(sentPmob, totalPrizePmob int64) string {
	return fmt.Sprintf("We've sent you %s MOB for a total prize of %s MOB!", mob.FormatMob(sentPmob), mob.FormatMob(totalPrizePmob))
}

func msgPrivacyPolicy(url string) string {
	return fmt.Sprintf("Our privacy policy is available here: %s", url)
}

func msgPrivacyPolicyReprompt(url string) string {
	return fmt.Sprintf("Our privacy policy is available here: %s\n\nWould you like to receive notifications for future drops?", url)
}

func msgNotEnoughRefund(refundPmob int64) string {
	return fmt.Sprintf("Not enough MOB for the item. We're returning %s MOB (the transaction fee is deducted).", mob.FormatMob(refundPmob))
}

func msgExcessPayment(refundPmob int64) string {
	return fmt.Sprintf("You sent more MOB than needed. We're returning the excess of %s MOB.", mob.FormatMob(refundPmob))
}

func msgPaymentReceived(amountPmob int64) string {
	return fmt.Sprintf("We received %s MOB", mob.FormatMob(amountPmob))
}

func msgItemDropGreeting(store entities.Store, item entities.Item) string {
	return fmt.Sprintf("Hi! This is MOBot on behalf of %s.\n\n%s\n\nToday we're selling %s.", store.Name, store.Description, item.ShortDescription)
}

func msgItemPrice(item entities.Item, drop entities.Drop) string {
	return fmt.Sprintf("The price is %s MOB, shipping included to any address in %s.", mob.FormatMob(item.PriceInPmob), drop.CountryLongNameRestriction)
}

func msgPaymentRequest(pricePmob int64) string {
	return fmt.Sprintf("Send us %s MOB to order.", mob.FormatMob(pricePmob))
}

func msgItemHelp(pricePmob int64) string {
	return fmt.Sprintf(
		"Commands available are:\n? - show this message\npay - how to send a payment\np - privacy policy\ninfo - item details\nn - cancel\n\nSend us %s MOB to order.",
		mob.FormatMob(pricePmob),
	)
}

func msgMissingSize(size string) string {
	return fmt.Sprintf("We don't have %q.", size)
}

func msgItemOptionHelp() string {
	return "You can type one of the sizes below to order, or:\np - privacy policy\nchart - size chart\nc - cancel and refund"
}

func msgAddressHelp(itemName string) string {
	return fmt.Sprintf("Please reply with the address we should ship your %s to, or type (c)ancel for a refund.", itemName)
}

func msgAddressRestriction(countryLongName string) string {
	return fmt.Sprintf("Sorry, we can only ship to addresses in %s. Your order has been cancelled.", countryLongName)
}

func msgVerifyShipping(name, address string) string {
	return fmt.Sprintf("Does this look right?\n\n%s\n%s\n\nReply with anything to confirm, 'name' to fix the name, or (c)ancel for a refund.", name, address)
}

func msgShippingConfirmationHelp(name, address string) string {
	return fmt.Sprintf("We have your shipping info as:\n\n%s\n%s\n\nReply with anything to confirm, 'name' to fix the name, or (c)ancel for a refund.", name, address)
}

func msgStoreClosed(opensAt time.Time, tzName, preDropDescription string) string {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.UTC
	}
	local := opensAt.In(loc)
	return fmt.Sprintf(
		"%s\n\nThe drop opens on %s at %s. See you then!",
		preDropDescription,
		local.Format("Monday, Jan 2"),
		local.Format("3:04 PM MST"),
	)
}

func msgOrderConfirmation(order entities.Order, item entities.Item, sku entities.Sku, store entities.Store, drop entities.Drop, vatID string) string {
	priceLocal := mob.ValueInCurrency(item.PriceInPmob, drop.ConversionRateMobToCurrency)
	vat := priceLocal / 6
	loc, err := time.LoadLocation(drop.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return fmt.Sprintf(
		"Order confirmed!\n\nOrder #%s\nDate: %s\nItem: %s (%s)\nPrice: %s MOB\nShip to: %s\n%s\nVAT (%s): %s\n\nThanks for shopping with %s!",
		order.ID,
		order.Date.In(loc).Format("Jan 2, 2006 3:04 PM MST"),
		item.Name,
		sku.Identifier,
		mob.FormatMob(item.PriceInPmob),
		order.ShippingName,
		order.ShippingAddress,
		vatID,
		mob.FormatCurrency(drop.CurrencySymbol, vat),
		store.Name,
	)
}

// optionsList renders available SKU identifiers as a line like "S, M, L".
func optionsList(skus []entities.Sku) string {
	ids := make([]string, 0, len(skus))
	for _, sku := range skus {
		ids = append(ids, strings.ToUpper(sku.Identifier))
	}
	return strings.Join(ids, ", ")
}

func msgSizeOptions(skus []entities.Sku) string {
	return "Available sizes: " + optionsList(skus) + "\n\n" + msgItemWhatSizeOrCancel
}
