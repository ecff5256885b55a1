package bot

// Callback responses for the join button (user-facing rejections, not faults)
const (
	MsgJoined        = "✅ Вы участвуете в розыгрыше!"
	MsgRaffleEnded   = "❌ Розыгрыш уже завершен"
	MsgAlreadyJoined = "⚠️ Вы уже участвуете!"
	MsgAlreadyWon    = "🚫 Вы уже выиграли в одном из активных розыгрышей! Не можете участвовать в других."
)

// Owner command responses
const (
	MsgNoActiveRaffles = "Нет активных розыгрышей"
	MsgNoWinsToday     = "Сегодня побед ещё не было"
	MsgStatusHeader    = "Активные розыгрыши:"
	MsgHistoryHeader   = "Победы за сегодня:"
)

// System error messages (internal errors, hide details from user)
const (
	MsgInternalError    = "Произошла внутренняя ошибка. Попробуйте позже."
	MsgFailedGetHistory = "Не удалось получить историю побед. Попробуйте ещё раз."
)

const MsgHelp = `Я слежу за сообщениями о свободных парковочных местах и разыгрываю их.

Когда кто-то пишет, что место освободилось, я запускаю розыгрыш: жмите кнопку «Я хочу!», и по истечении таймера я случайно выберу победителя. Победитель не может участвовать в других розыгрышах до конца дня.

Команды владельца:
/status — активные розыгрыши
/history — победы за сегодня
/help — эта справка`
