package spades

import "errors"

// ErrNotBiddingPhase is returned when a bid arrives outside the bidding phase
var ErrNotBiddingPhase = errors.New("bids may only be made during the bidding phase")

// ErrNotPlayingPhase is returned when a card is played outside the playing phase
var ErrNotPlayingPhase = errors.New("cards may only be played during the playing phase")

// ErrIsNotPlayersTurn is returned when it's not the player's turn
var ErrIsNotPlayersTurn = errors.New("not player's turn")

// ErrAlreadyBid is returned when a seat attempts a second bid in the same hand
var ErrAlreadyBid = errors.New("seat has already bid this hand")

// ErrInvalidBid is returned for a bid outside 0-13 or a malformed nil call
var ErrInvalidBid = errors.New("bid must be 0-13, nil, or blind nil")

// ErrCardNotInPlayersHand happens when the player tries to play a card they don't have
var ErrCardNotInPlayersHand = errors.New("card is not in player's hand")

// ErrSpadesNotBroken is returned when spades are led before they have been broken
var ErrSpadesNotBroken = errors.New("spades have not been broken")

// ErrMustFollowSuit is returned when the player holds the lead suit but plays off-suit
var ErrMustFollowSuit = errors.New("player must follow the lead suit")

// ErrHandInProgress prevents a deal while a hand is being bid or played
var ErrHandInProgress = errors.New("a hand is already in progress")

// ErrHandNotScored prevents advancing to the next hand before scoring
var ErrHandNotScored = errors.New("the current hand has not been scored")

// ErrInvalidSeat is returned for a seat outside 0-3
var ErrInvalidSeat = errors.New("seat must be 0-3")

// ErrMissingToken is returned when a deal is attempted with an unoccupied seat
var ErrMissingToken = errors.New("all four seats need a token to deal")
